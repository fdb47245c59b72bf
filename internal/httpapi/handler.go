package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"modkeys-storefront/pkg/db/pagination"
	"modkeys-storefront/pkg/errutil"
	"modkeys-storefront/services/adminauth"
	"modkeys-storefront/services/catalog"
	"modkeys-storefront/services/claim"
	"modkeys-storefront/services/inventory"
	"modkeys-storefront/services/payment"
	"modkeys-storefront/services/recommend"
)

const maxScreenshotBytes = 5 << 20

type Handler struct {
	catalog   *catalog.Catalog
	inventory *inventory.Service
	claims    *claim.Service
	payments  *payment.Service
	advisor   recommend.Recommender
	auth      *adminauth.Service
}

func (h *Handler) ListMods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mods": h.catalog.Mods()})
}

func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.catalog.Plans()})
}

func (h *Handler) Availability(c *gin.Context) {
	out, err := h.inventory.Availability(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": out})
}

func (h *Handler) Lookup(c *gin.Context) {
	found, err := h.inventory.Lookup(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": found})
}

// Claim accepts either multipart/form-data (the storefront form) or JSON with
// a base64 screenshot.
func (h *Handler) Claim(c *gin.Context) {
	req, err := h.bindClaim(c)
	if err != nil {
		c.Error(err)
		return
	}

	receipt, err := h.claims.Attempt(c.Request.Context(), *req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment verified successfully!",
		"receipt": receipt,
	})
}

func (h *Handler) bindClaim(c *gin.Context) (*claim.Request, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req claim.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, errutil.BadRequest("malformed claim request", errutil.WithErr(err))
		}
		return &req, nil
	}

	price, _ := strconv.ParseInt(c.PostForm("price"), 10, 64)
	req := &claim.Request{
		Mod:       c.PostForm("mod"),
		Plan:      c.PostForm("plan"),
		Price:     price,
		UTRNumber: c.PostForm("utr_number"),
	}

	file, err := c.FormFile("screenshot")
	if err != nil {
		return nil, errutil.ValidationFailed("a payment screenshot is required")
	}
	if file.Size > maxScreenshotBytes {
		return nil, errutil.ValidationFailed("screenshot exceeds the 5MB limit")
	}

	f, err := file.Open()
	if err != nil {
		return nil, errutil.BadRequest("unreadable screenshot", errutil.WithErr(err))
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxScreenshotBytes+1))
	if err != nil {
		return nil, errutil.BadRequest("unreadable screenshot", errutil.WithErr(err))
	}
	if len(data) > maxScreenshotBytes {
		return nil, errutil.ValidationFailed("screenshot exceeds the 5MB limit")
	}

	req.Screenshot = data
	req.MimeType = file.Header.Get("Content-Type")
	return req, nil
}

func (h *Handler) RecommendPlan(c *gin.Context) {
	var q recommend.PlanQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.Error(errutil.BadRequest("malformed request", errutil.WithErr(err)))
		return
	}

	advice, err := h.advisor.RecommendPlan(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": advice})
}

func (h *Handler) RecommendMod(c *gin.Context) {
	var q recommend.ModQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.Error(errutil.BadRequest("malformed request", errutil.WithErr(err)))
		return
	}

	advice, err := h.advisor.RecommendMod(c.Request.Context(), q)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": advice})
}

func (h *Handler) AdminListKeys(c *gin.Context) {
	keys, err := h.inventory.List(c.Request.Context(), c.Query("mod"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

type createKeysRequest struct {
	Mod    string   `json:"mod"`
	Plan   string   `json:"plan"`
	Values []string `json:"values"`
}

func (h *Handler) AdminCreateKeys(c *gin.Context) {
	var req createKeysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("malformed request", errutil.WithErr(err)))
		return
	}

	created, err := h.inventory.BulkCreate(c.Request.Context(), req.Mod, req.Plan, req.Values)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"keys": created})
}

func (h *Handler) AdminDeleteKey(c *gin.Context) {
	if err := h.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.inventory.Stats(c.Request.Context(), c.Query("mod"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminListPayments(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.Error(errutil.BadRequest("malformed pagination", errutil.WithErr(err)))
		return
	}

	out, info, err := h.payments.ListPage(c.Request.Context(), payment.ListFilter{
		Status: payment.Status(c.Query("status")),
		UTR:    c.Query("utr"),
	}, page)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": out, "page_info": info})
}

type issueAPIKeyRequest struct {
	Name string `json:"name"`
}

func (h *Handler) AdminIssueAPIKey(c *gin.Context) {
	var req issueAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("malformed request", errutil.WithErr(err)))
		return
	}

	key, plaintext, err := h.auth.Issue(c.Request.Context(), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"api_key": key, "secret": plaintext})
}

func (h *Handler) AdminRevokeAPIKey(c *gin.Context) {
	if err := h.auth.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

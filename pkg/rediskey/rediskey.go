package rediskey

import "fmt"

// Key namespaces shared between the storefront and the worker.
const (
	OrderSeqPrefix = "seq:order"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildOrderSeqKey returns "seq:order:{yymmdd}"
func BuildOrderSeqKey(day string) string {
	return NamespaceKey(OrderSeqPrefix, day)
}

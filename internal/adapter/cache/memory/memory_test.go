package memory

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestSetGetRoundTrip(t *testing.T) {
	RegisterTestingT(t)

	cache := NewMemoryRepository()
	defer cache.Close()

	ctx := context.Background()

	Expect(cache.Set(ctx, "todos:list", []byte("[]"), time.Minute)).To(Succeed())

	value, err := cache.Get(ctx, "todos:list")
	Expect(err).NotTo(HaveOccurred())
	Expect(value).To(Equal([]byte("[]")))
}

func TestGetMissReturnsNil(t *testing.T) {
	RegisterTestingT(t)

	cache := NewMemoryRepository()
	defer cache.Close()

	value, err := cache.Get(context.Background(), "missing")

	Expect(err).NotTo(HaveOccurred())
	Expect(value).To(BeNil())
}

func TestDeleteByPrefix(t *testing.T) {
	RegisterTestingT(t)

	cache := NewMemoryRepository()
	defer cache.Close()

	ctx := context.Background()

	cache.Set(ctx, "todos:list", []byte("a"), time.Minute)
	cache.Set(ctx, "todos:page:1", []byte("b"), time.Minute)
	cache.Set(ctx, "other:key", []byte("c"), time.Minute)

	Expect(cache.DeleteByPrefix(ctx, "todos:")).To(Succeed())

	value, _ := cache.Get(ctx, "todos:list")
	Expect(value).To(BeNil())

	value, _ = cache.Get(ctx, "todos:page:1")
	Expect(value).To(BeNil())

	value, _ = cache.Get(ctx, "other:key")
	Expect(value).To(Equal([]byte("c")))
}

func TestSetExpires(t *testing.T) {
	RegisterTestingT(t)

	cache := NewMemoryRepository()
	defer cache.Close()

	ctx := context.Background()

	cache.Set(ctx, "short", []byte("x"), 10*time.Millisecond)

	Eventually(func() []byte {
		value, _ := cache.Get(ctx, "short")
		return value
	}).Should(BeNil())
}

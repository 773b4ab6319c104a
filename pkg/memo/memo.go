// Package memo holds computed values in explicit per-owner cache slots.
//
// A Value is declared as a field on the owning struct; its zero value is
// unset. The owner exposes a plain accessor that calls Get with the real
// computation:
//
//	type Client struct {
//		org memo.Value[nested.Map]
//	}
//
//	func (c *Client) Org(ctx context.Context) (nested.Map, error) {
//		return c.org.Get(func() (nested.Map, error) { return c.fetchOrg(ctx) })
//	}
package memo

// Value caches the first successful result of a computation for the lifetime
// of its owner. There is no expiry or invalidation. A Value is not safe for
// concurrent use and must not be copied after first use.
type Value[T any] struct {
	set bool
	val T
}

// Get returns the cached value, running compute only while the slot is
// unset. An error from compute is returned as is and leaves the slot unset,
// so a later Get runs compute again.
func (v *Value[T]) Get(compute func() (T, error)) (T, error) {
	if v.set {
		return v.val, nil
	}
	val, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	v.val = val
	v.set = true
	return v.val, nil
}

// MustGet is Get for computations that cannot fail.
func (v *Value[T]) MustGet(compute func() T) T {
	val, _ := v.Get(func() (T, error) { return compute(), nil })
	return val
}

// Peek returns the cached value without computing it.
func (v *Value[T]) Peek() (T, bool) {
	return v.val, v.set
}

// IsSet reports whether a value has been cached.
func (v *Value[T]) IsSet() bool { return v.set }

package domain

import (
	"fmt"
	"sync"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/platform/net/http/bind"
)

var registerOnce sync.Once

// RegisterValidators adds the body, point and aspect tags to the shared
// validator. Safe to call more than once. Panics if a tag cannot be
// registered, since every request would then fail validation.
func RegisterValidators() {
	registerOnce.Do(func() {
		mustRegister("body", "{0} is not a known body", func(fl bind.FieldLevel) bool {
			_, err := catalog.ParseBody(fl.Field().String())
			return err == nil
		})
		mustRegister("point", "{0} is not a known body or midpoint", func(fl bind.FieldLevel) bool {
			_, err := catalog.ParsePoint(fl.Field().String())
			return err == nil
		})
		mustRegister("aspect", "{0} is not a known aspect", func(fl bind.FieldLevel) bool {
			_, err := catalog.ParseAspect(fl.Field().String())
			return err == nil
		})
	})
}

func mustRegister(tag, msg string, fn func(bind.FieldLevel) bool) {
	if err := bind.RegisterTag(tag, msg, fn); err != nil {
		panic(fmt.Errorf("scan domain: register %q validator: %w", tag, err))
	}
}

package sway

import "fmt"

var defaultStyleProps = []string{
	"opacity",
	"transform",
	"borderRadius",
	"borderBottomEndRadius",
	"borderBottomLeftRadius",
	"borderBottomRightRadius",
	"borderBottomStartRadius",
	"borderTopEndRadius",
	"borderTopLeftRadius",
	"borderTopRightRadius",
	"borderTopStartRadius",
	"elevation",
	"zIndex",
	"shadowOpacity",
	"shadowRadius",
	"scaleX",
	"scaleY",
	"translateX",
	"translateY",
	"backgroundColor",
	"borderBottomColor",
	"borderColor",
	"borderEndColor",
	"borderLeftColor",
	"borderRightColor",
	"borderStartColor",
	"borderTopColor",
	"color",
	"tintColor",
}

var defaultTransformProps = []string{
	"translateX",
	"translateY",
	"scale",
	"scaleX",
	"scaleY",
	"rotate",
	"rotateX",
	"rotateY",
	"rotateZ",
	"perspective",
}

var defaultInterpolationParams = []string{
	"inputRange",
	"outputRange",
	"extrapolate",
	"extrapolateLeft",
	"extrapolateRight",
}

// allowList is a set of keys the remote executor is known to understand.
type allowList map[string]struct{}

func newAllowList(keys []string) allowList {
	l := make(allowList, len(keys))
	l.add(keys...)
	return l
}

func (l allowList) add(keys ...string) {
	for _, k := range keys {
		l[k] = struct{}{}
	}
}

func (l allowList) has(key string) bool {
	_, ok := l[key]
	return ok
}

// IsSupportedStyleProp reports whether a style key may be sent to the
// remote executor.
func (b *Bridge) IsSupportedStyleProp(name string) bool {
	return b.styleProps.has(name)
}

// IsSupportedTransformProp reports whether a transform key may be sent to
// the remote executor.
func (b *Bridge) IsSupportedTransformProp(name string) bool {
	return b.transformProps.has(name)
}

// IsSupportedInterpolationParam reports whether an interpolation config key
// may be sent to the remote executor.
func (b *Bridge) IsSupportedInterpolationParam(name string) bool {
	return b.interpolationParams.has(name)
}

// AllowStyleProps adds style keys to the allow-list.
func (b *Bridge) AllowStyleProps(names ...string) {
	b.styleProps.add(names...)
}

// AllowTransformProps adds transform keys to the allow-list.
func (b *Bridge) AllowTransformProps(names ...string) {
	b.transformProps.add(names...)
}

// AllowInterpolationParams adds interpolation config keys to the allow-list.
func (b *Bridge) AllowInterpolationParams(names ...string) {
	b.interpolationParams.add(names...)
}

func (b *Bridge) validateStyleProp(name string) error {
	if !b.IsSupportedStyleProp(name) {
		return fmt.Errorf("sway: style property %q is not supported by the remote driver: %w", name, ErrUnsupportedProperty)
	}
	return nil
}

func (b *Bridge) validateTransformProp(name string) error {
	if !b.IsSupportedTransformProp(name) {
		return fmt.Errorf("sway: transform property %q is not supported by the remote driver: %w", name, ErrUnsupportedProperty)
	}
	return nil
}

func (b *Bridge) validateInterpolationConfig(cfg map[string]any) error {
	for key := range cfg {
		if key == "type" || key == "input" {
			continue
		}
		if !b.IsSupportedInterpolationParam(key) {
			return fmt.Errorf("sway: interpolation property %q is not supported by the remote driver: %w", key, ErrUnsupportedProperty)
		}
	}
	return nil
}

package remote

// Config structs for the maps sent with createNode and startAnimating,
// decoded with sway.DecodeConfig.

type typeConfig struct {
	Type string `mapstructure:"type"`
}

type valueNodeConfig struct {
	Value  float64 `mapstructure:"value"`
	Offset float64 `mapstructure:"offset"`
}

// operatorNodeConfig covers arithmetic, modulus and diffclamp nodes. Input
// is a tag list for arithmetic and a single tag otherwise.
type operatorNodeConfig struct {
	Input   []int   `mapstructure:"input"`
	Modulus float64 `mapstructure:"modulus"`
	Min     float64 `mapstructure:"min"`
	Max     float64 `mapstructure:"max"`
}

type colorNodeConfig struct {
	R *int `mapstructure:"r"`
	G *int `mapstructure:"g"`
	B *int `mapstructure:"b"`
	A *int `mapstructure:"a"`
}

type trackingNodeConfig struct {
	AnimationID     *int           `mapstructure:"animationId"`
	ToValue         *int           `mapstructure:"toValue"`
	Value           *int           `mapstructure:"value"`
	AnimationConfig map[string]any `mapstructure:"animationConfig"`
}

type propsNodeConfig struct {
	Style     map[string]int   `mapstructure:"style"`
	Transform []transformEntry `mapstructure:"transform"`
}

type transformEntry struct {
	Property string `mapstructure:"property"`
	NodeTag  *int   `mapstructure:"nodeTag"`
}

// timingAnimationConfig is a timing animation. Durations are milliseconds.
type timingAnimationConfig struct {
	Type       string  `mapstructure:"type"`
	ToValue    float64 `mapstructure:"toValue"`
	Duration   float64 `mapstructure:"duration"`
	Delay      float64 `mapstructure:"delay"`
	Easing     string  `mapstructure:"easing"`
	Iterations *int    `mapstructure:"iterations"`
}

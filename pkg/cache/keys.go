package cache

import "fmt"

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// HTTPKey identifies a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// ChartKey identifies a laid-out chart built from a payload.
	ChartKey(payloadHash string, opts ChartKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a chart.
	ArtifactKey(chartHash string, opts ArtifactKeyOpts) string
}

// ChartKeyOpts holds every option that changes the laid-out chart.
type ChartKeyOpts struct {
	Branch            string     `json:"branch,omitempty"`
	ExpandDepth       int        `json:"expand_depth"`
	ExpandAll         bool       `json:"expand_all,omitempty"`
	CollapseAll       bool       `json:"collapse_all,omitempty"`
	Toggles           []string   `json:"toggles,omitempty"`
	HorizontalSpacing float64    `json:"hs"`
	VerticalSpacing   float64    `json:"vs"`
	Palette           []string   `json:"palette,omitempty"`
	FallbackColor     string     `json:"fallback,omitempty"`
	DepartmentSize    [2]float64 `json:"dept_size"`
	EmployeeSize      [2]float64 `json:"emp_size"`
	Viewport          [3]float64 `json:"viewport"`
	Title             string     `json:"title,omitempty"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Renderer string  `json:"renderer"`
	Padding  float64 `json:"padding,omitempty"`
	Badges   bool    `json:"badges,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

func (DefaultKeyer) ChartKey(payloadHash string, opts ChartKeyOpts) string {
	return hashKey("chart", payloadHash, opts)
}

func (DefaultKeyer) ArtifactKey(chartHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", chartHash, opts)
}

var _ Keyer = DefaultKeyer{}

package shipping

import "strings"

// Method is a shipping service level offered at checkout
type Method string

const (
	MethodStandard Method = "standard"
	MethodExpress  Method = "express"
)

// ParseMethod normalizes a method code. An empty string means standard.
func ParseMethod(s string) Method {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MethodStandard
	}
	return Method(s)
}

// String returns the method code
func (m Method) String() string {
	return string(m)
}

// MethodInfo describes a method in the catalogue. A non-nil Estimate
// replaces the zone's delivery window for quotes using this method.
type MethodInfo struct {
	Code        Method            `json:"code" yaml:"code"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Estimate    *DeliveryEstimate `json:"estimate,omitempty" yaml:"estimate,omitempty"`
}

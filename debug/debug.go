package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Gate    bool
	Patch   bool
	Resolve bool
	Plan    bool
	RPC     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Gate = boolEnv("CM_DEBUG_GATE")
	d.Patch = boolEnv("CM_DEBUG_PATCH")
	d.Resolve = boolEnv("CM_DEBUG_RESOLVE")
	d.Plan = boolEnv("CM_DEBUG_PLAN")
	d.RPC = boolEnv("CM_DEBUG_RPC")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Gate() bool {
	return d.Gate
}
func Patch() bool {
	return d.Patch
}
func Resolve() bool {
	return d.Resolve
}
func Plan() bool {
	return d.Plan
}
func RPC() bool {
	return d.RPC
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}

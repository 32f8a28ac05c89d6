// Package auth provides the placeholder authentication capability the
// idle-time beacon builder attaches to outgoing frames. Security/key
// management is explicitly out of scope; this exists only as the hook
// point a future implementation would extend.
package auth

// GuestContext is the minimal authentication context attached to a
// beacon frame when no real credential material is configured.
type GuestContext struct {
	Guest bool
}

// Provider is the capability interface the idle-time sequencer calls
// when building a beacon frame.
type Provider interface {
	GuestContext() GuestContext
}

// NoOp is the default Provider: every frame is built as an
// unauthenticated guest, matching the source kernel's disabled auth
// heap (_SEC_ANY == 0).
type NoOp struct{}

func (NoOp) GuestContext() GuestContext { return GuestContext{Guest: true} }

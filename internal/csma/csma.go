// Package csma implements the RIGD/RAIND/AIND/default flow-control
// disciplines that pick contention-window slot offsets, and the
// channel-list scramble used before multi-channel transmission.
package csma

import "github.com/dbehnke/dash7kernel/internal/dllcomm"

// RandSource supplies the platform pseudo-random values the flow
// control algorithms need. Injected so tests can drive deterministic
// sequences, the way the teacher injects a clock function into Timer.
type RandSource interface {
	Uint16() uint16
	Uint8() uint8
}

// PktDuration computes the on-air ticks for a frame of the given byte
// length; supplied by the radio driver contract (rm2_pkt_duration).
type PktDuration func(bytes int) int32

// Controller runs the flow-control algorithm selected by a session's
// CSMAParams against its DLL comm block.
type Controller struct {
	Rand        RandSource
	PktDuration PktDuration
	GuardTime   int32
}

// Init picks the offset for the first transmission attempt, mirroring
// sub_fcinit. Only RIGD changes the comm block (it halves tc and resets
// tca to it); the other modes leave tc/tca as they are.
func (c *Controller) Init(comm *dllcomm.DLLComm, firstFrameLen int) int32 {
	switch comm.CSMA.Mode {
	case dllcomm.CSMARIGD:
		return c.rigdNewSlot(comm)
	case dllcomm.CSMARAIND:
		span := comm.Tca - c.PktDuration(firstFrameLen)
		if span <= 0 {
			return 0
		}
		return int32(c.Rand.Uint16()) % span
	default: // AIND, Default
		return 0
	}
}

// Loop picks the next retry offset after a CCA failure, mirroring
// sub_fcloop.
func (c *Controller) Loop(comm *dllcomm.DLLComm, firstFrameLen int) int32 {
	switch comm.CSMA.Mode {
	case dllcomm.CSMARIGD:
		return c.rigdNextSlot(comm) + c.rigdNewSlot(comm)
	case dllcomm.CSMARAIND, dllcomm.CSMAAIND:
		return c.PktDuration(firstFrameLen)
	default: // Default MACCA
		return c.GuardTime
	}
}

// rigdNewSlot halves tc, resets tca to the new tc, and returns a random
// offset within the new (smaller) contention window.
func (c *Controller) rigdNewSlot(comm *dllcomm.DLLComm) int32 {
	comm.Tc >>= 1
	comm.Tca = comm.Tc
	if comm.Tc <= 0 {
		return 0
	}
	return int32(c.Rand.Uint16()) % comm.Tc
}

// rigdNextSlot returns the time remaining in the current slot.
func (c *Controller) rigdNextSlot(comm *dllcomm.DLLComm) int32 {
	wait := comm.Tc - comm.Tca
	if wait < 0 {
		return 0
	}
	return wait
}

// EvalQueryScore is a reserved hook for query-quality-weighted slot
// shaping. It is a no-op today; a future implementation could use a
// positive score to bias toward an earlier contention slot.
func (c *Controller) EvalQueryScore(score int) {}

// ScrambleChannels permutes a tx channel list in place using two random
// bytes, so that devices sharing a schedule don't retry on the same
// channel in lockstep.
func ScrambleChannels(chanlist []uint8, rot1, rot2 uint8) {
	n := len(chanlist)
	if n <= 1 {
		return
	}

	for i := 0; i < n-1; i++ {
		j := i
		if rot1&1 != 0 {
			j++
		}
		k := 0
		if rot2&1 != 0 {
			k = n - 1
		}

		chanlist[i], chanlist[k] = chanlist[k], chanlist[i]
		chanlist[i], chanlist[j] = chanlist[j], chanlist[i]

		rot1 >>= 1
		rot2 >>= 1
	}
}

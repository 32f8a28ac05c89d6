package dllcomm

// IdleState is the device's radio posture when no session needs the
// channel.
type IdleState uint8

const (
	IdleOff IdleState = iota
	IdleSleep
	IdleHold
)

func (s IdleState) String() string {
	switch s {
	case IdleOff:
		return "off"
	case IdleSleep:
		return "sleep"
	case IdleHold:
		return "hold"
	default:
		return "unknown"
	}
}

// DeviceClass is the Mode 2 class bitmap read from network configuration.
type DeviceClass uint16

const (
	ClassOff           DeviceClass = 0x00
	ClassEndpoint      DeviceClass = 0x01
	ClassSubcontroller DeviceClass = 0x02
	ClassGateway       DeviceClass = 0x04
	ClassMask          DeviceClass = 0x07
)

// DefaultIdleState maps a device class to its default idle posture:
// subcontroller-or-above devices hold the channel, plain endpoints sleep,
// anything else (no endpoint bit set) goes fully off.
func DefaultIdleState(class DeviceClass) IdleState {
	switch {
	case class&(ClassSubcontroller|ClassGateway) != 0:
		return IdleHold
	case class&ClassEndpoint != 0:
		return IdleSleep
	default:
		return IdleOff
	}
}

// NetworkConfig is the persisted network identity read from ISF 0.
type NetworkConfig struct {
	Subnet    uint8
	BSubnet   uint8
	DDFlags   uint8
	BAttempts uint8
	Active    DeviceClass
	HoldLimit uint16
}

// DLLComm is the per-dialog MAC parameter block: contention window
// bookkeeping, channel lists, and the currently selected CSMA discipline.
type DLLComm struct {
	Tc         int32
	Tca        int32
	RxTimeout  uint16
	Redundants uint8

	TxChannels []uint8
	RxChannels []uint8
	TxChanlist []uint8
	RxChanlist []uint8
	Scratch    [8]byte

	CSMA      CSMAParams
	IdleState IdleState
}

// NewDLLComm returns a zeroed comm block with the given default idle
// state, matching how the kernel arms a fresh dialog.
func NewDLLComm(idle IdleState) *DLLComm {
	return &DLLComm{IdleState: idle}
}

// ClockTasks subtracts elapsed ticks from Tca, mirroring
// sub_clock_tasks's per-tick decrement of the contention counter. Tc is
// left untouched here: it only changes on a CSMA-CA new-slot event.
func (d *DLLComm) ClockTasks(elapsed int32) {
	d.Tca -= elapsed
}

// CSMAExpired reports whether the contention window has been exhausted.
func (d *DLLComm) CSMAExpired() bool { return d.Tca < 0 }

// ABOUTME: Default output device control: endpoint enumeration and default commits.
// ABOUTME: OS access goes through the Backend interface; Windows is the only real backend.

package audio

// AudioDevice represents an active render endpoint in one enumeration snapshot
type AudioDevice struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// Role is one of the default-device slots the OS tracks per use case.
// Values match the ERole enumeration.
type Role int

const (
	RoleGeneral        Role = 0 // eConsole
	RoleMultimedia     Role = 1 // eMultimedia
	RoleCommunications Role = 2 // eCommunications
)

// commitOrder is the order in which roles are committed
var commitOrder = [...]Role{RoleGeneral, RoleMultimedia, RoleCommunications}

func (r Role) String() string {
	switch r {
	case RoleGeneral:
		return "General"
	case RoleMultimedia:
		return "Multimedia"
	case RoleCommunications:
		return "Communications"
	default:
		return "Unknown"
	}
}

// Backend is the OS side of device control
type Backend interface {
	// Enumerate returns active render endpoints in OS order
	Enumerate() ([]AudioDevice, error)
	// SetDefault makes id the default endpoint for every role
	SetDefault(id string) error
}

// System is the Backend talking to the running OS
type System struct{}

// NewSystem returns the OS backend
func NewSystem() *System {
	return &System{}
}

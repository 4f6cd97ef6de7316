package domain

// Member represents user's participation meta for a group call.
// No transport or lifecycle logic here.
type Member struct {
	UserProfile
	MicOn    bool `json:"mic_on"`
	CameraOn bool `json:"camera_on"`
}

// NewMember snapshots the profile; both devices start off.
func NewMember(user UserProfile) Member {
	return Member{UserProfile: user}
}

type Device string

const (
	DeviceMicrophone Device = "microphone"
	DeviceCamera     Device = "camera"
)

package receipt

// Channel identifies one receipt delivery mechanism.
type Channel string

const (
	ChannelPrint Channel = "print"
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// DispatchStatus is the per-channel delivery state. It lives only for the
// duration of a checkout session and is never persisted.
type DispatchStatus string

const (
	StatusIdle    DispatchStatus = "idle"
	StatusSending DispatchStatus = "sending"
	StatusSuccess DispatchStatus = "success"
	StatusError   DispatchStatus = "error"
)

// DispatchResult records one channel's outcome for one sale. Channels are
// independent: one channel's status never changes because of another's.
type DispatchResult struct {
	Channel Channel        `json:"channel"`
	Status  DispatchStatus `json:"status"`
	Error   string         `json:"error,omitempty"`
}

// Succeeded reports whether the channel delivered.
func (r DispatchResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Renderer turns the canonical sale snapshot into one channel's document.
// Implementations must be pure: identical snapshots yield identical output.
type Renderer interface {
	Render(snapshot *SaleSnapshot) (string, error)
}

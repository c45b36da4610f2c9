package zone

// Record types and field names are the persisted contract with the record
// store. Existing zones depend on these exact strings.
const (
	WebFeedRecordType RecordType = "WebFeed"

	WebFeedURLField                 = "url"
	WebFeedEditedNameField          = "editedName"
	WebFeedContainerMembershipField = "containerMembership"
)

const (
	ContainerRecordType RecordType = "Container"

	ContainerIsAccountField = "isAccount"
	ContainerNameField      = "name"
)

const (
	boolTrue  = "true"
	boolFalse = "false"
)

// FormatBool renders a flag the way the store has always persisted it.
func FormatBool(b bool) string {
	if b {
		return boolTrue
	}
	return boolFalse
}

func ParseBool(s string) bool {
	return s == boolTrue
}

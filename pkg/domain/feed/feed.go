package feed

import (
	"errors"

	"github.com/piraces/feedzone/pkg/helpers"
)

type Address struct {
	s string
}

func NewAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, errors.New("address can't be an empty string")
	}

	if !helpers.IsValidHttpUrl(s) {
		return Address{}, errors.New("invalid URL provided (must be in absolute format and with http or https scheme)")
	}

	return Address{s: s}, nil
}

func (a Address) String() string {
	return a.s
}

// WebFeed is a handle on a feed record. The external ID is empty until the
// feed has been persisted.
type WebFeed struct {
	externalID   string
	address      Address
	editedName   *string
	containerIDs []string
}

func NewWebFeed(externalID string, address Address, editedName *string, containerIDs []string) WebFeed {
	return WebFeed{
		externalID:   externalID,
		address:      address,
		editedName:   editedName,
		containerIDs: containerIDs,
	}
}

// NewWebFeedHandle references an existing feed record by its external ID.
func NewWebFeedHandle(externalID string) WebFeed {
	return WebFeed{externalID: externalID}
}

func (f WebFeed) ExternalID() (string, bool) {
	return f.externalID, f.externalID != ""
}

func (f WebFeed) Address() Address {
	return f.address
}

func (f WebFeed) EditedName() *string {
	return f.editedName
}

func (f WebFeed) ContainerIDs() []string {
	return f.containerIDs
}

// Container is either a folder or the account root.
type Container struct {
	externalID string
	name       string
	account    bool
}

func NewFolder(externalID string, name string) Container {
	return Container{externalID: externalID, name: name}
}

func NewAccount(externalID string) Container {
	return Container{externalID: externalID, name: AccountName, account: true}
}

// AccountName is the display name given to a freshly created account root.
const AccountName = "Account"

func (c Container) ExternalID() (string, bool) {
	return c.externalID, c.externalID != ""
}

func (c Container) Name() string {
	return c.name
}

func (c Container) IsAccount() bool {
	return c.account
}

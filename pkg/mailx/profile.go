package mailx

// Profile is the address-layout flavor a delivery backend uses when building
// the outgoing message. Some mail clients expect nonstandard header layouts.
type Profile string

const (
	ProfileStandard Profile = "standard"
	ProfileOutlook  Profile = "outlook"
	ProfileGmail    Profile = "gmail"
	ProfileMac      Profile = "mac"
)

// DefaultProfile is used when an action does not name one.
const DefaultProfile = ProfileStandard

// Profiles lists every known profile.
func Profiles() []Profile {
	return []Profile{ProfileStandard, ProfileOutlook, ProfileGmail, ProfileMac}
}

// ParseProfile matches name case-sensitively against the profile set.
func ParseProfile(name string) (Profile, error) {
	for _, p := range Profiles() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", mailxErrors.New(ErrUnknownProfile).WithDetail("profile", name)
}

// String returns the canonical profile name.
func (p Profile) String() string {
	return string(p)
}

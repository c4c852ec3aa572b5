// Package permissions defines the entitlement vocabulary of the platform:
// the entitlement names computed for members, the club/store roles that can
// grant them, and the subscription tiers with their default grant sets.
package permissions

// Entitlement names. These are the strings stored in cache entries and
// checked by feature gates across the platform.
const (
	CanCreateClub           = "CAN_CREATE_CLUB"
	CanCreateUnlimitedClubs = "CAN_CREATE_UNLIMITED_CLUBS"
	CanJoinUnlimitedClubs   = "CAN_JOIN_UNLIMITED_CLUBS"
	CanModerateDiscussions  = "CAN_MODERATE_DISCUSSIONS"
	CanScheduleEvents       = "CAN_SCHEDULE_EVENTS"
	CanHostVideoMeetings    = "CAN_HOST_VIDEO_MEETINGS"
	CanPinAnnouncements     = "CAN_PIN_ANNOUNCEMENTS"
	CanReadPremiumGuides    = "CAN_READ_PREMIUM_GUIDES"
	CanSendDirectMessages   = "CAN_SEND_DIRECT_MESSAGES"
	CanUploadDocuments      = "CAN_UPLOAD_DOCUMENTS"
	CanAccessStoreDashboard = "CAN_ACCESS_STORE_DASHBOARD"
	CanManageStoreInventory = "CAN_MANAGE_STORE_INVENTORY"
)

// Role names assignable through club membership or store staffing.
const (
	RoleClubLead      = "club_lead"
	RoleClubModerator = "club_moderator"
	RoleEventHost     = "event_host"
	RoleStoreAdmin    = "store_admin"
	RoleStoreStaff    = "store_staff"
)

// Tier is a member's subscription level.
type Tier string

const (
	TierMember         Tier = "member"
	TierPrivileged     Tier = "privileged"
	TierPrivilegedPlus Tier = "privileged_plus"
)

func (t Tier) String() string {
	return string(t)
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierMember, TierPrivileged, TierPrivilegedPlus:
		return true
	}
	return false
}

// Entitlements lists every entitlement name, in the order feature gates
// enumerate them.
var Entitlements = []string{
	CanCreateClub,
	CanCreateUnlimitedClubs,
	CanJoinUnlimitedClubs,
	CanModerateDiscussions,
	CanScheduleEvents,
	CanHostVideoMeetings,
	CanPinAnnouncements,
	CanReadPremiumGuides,
	CanSendDirectMessages,
	CanUploadDocuments,
	CanAccessStoreDashboard,
	CanManageStoreInventory,
}

// Roles lists every assignable role name.
var Roles = []string{
	RoleClubLead,
	RoleClubModerator,
	RoleEventHost,
	RoleStoreAdmin,
	RoleStoreStaff,
}

// DefaultTierGrants maps each tier to its full entitlement set. Sets are
// cumulative: every tier includes everything the tiers below it grant.
var DefaultTierGrants = map[Tier][]string{
	TierMember: {
		CanCreateClub,
		CanSendDirectMessages,
	},
	TierPrivileged: {
		CanCreateClub,
		CanSendDirectMessages,
		CanJoinUnlimitedClubs,
		CanReadPremiumGuides,
		CanUploadDocuments,
	},
	TierPrivilegedPlus: {
		CanCreateClub,
		CanSendDirectMessages,
		CanJoinUnlimitedClubs,
		CanReadPremiumGuides,
		CanUploadDocuments,
		CanCreateUnlimitedClubs,
		CanHostVideoMeetings,
	},
}

// DefaultRoleGrants maps each role to the entitlements it confers within
// its context.
var DefaultRoleGrants = map[string][]string{
	RoleClubLead: {
		CanModerateDiscussions,
		CanScheduleEvents,
		CanPinAnnouncements,
	},
	RoleClubModerator: {
		CanModerateDiscussions,
		CanPinAnnouncements,
	},
	RoleEventHost: {
		CanScheduleEvents,
		CanHostVideoMeetings,
	},
	RoleStoreAdmin: {
		CanAccessStoreDashboard,
		CanManageStoreInventory,
	},
	RoleStoreStaff: {
		CanAccessStoreDashboard,
	},
}

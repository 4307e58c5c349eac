package auth

import "strings"

// Screening domain scopes
const (
	ScopeJobsAll     = "jobs:*"
	ScopeJobsRead    = "jobs:read"
	ScopeJobsWrite   = "jobs:write"
	ScopeJobsDelete  = "jobs:delete"
	ScopeJobsPublish = "jobs:publish"
	ScopeJobsArchive = "jobs:archive"

	ScopeResumesAll    = "resumes:*"
	ScopeResumesRead   = "resumes:read"
	ScopeResumesWrite  = "resumes:write"
	ScopeResumesDelete = "resumes:delete"

	ScopeRankingsAll = "rankings:*"
	ScopeRankingsRead = "rankings:read"
	ScopeRankingsRun  = "rankings:run"
)

// ScopeDescriptions provides human-readable scope descriptions
var ScopeDescriptions = map[string]string{
	ScopeJobsAll:     "Full access to job management",
	ScopeJobsRead:    "View jobs",
	ScopeJobsWrite:   "Create and edit jobs",
	ScopeJobsDelete:  "Delete jobs",
	ScopeJobsPublish: "Publish and unpublish jobs",
	ScopeJobsArchive: "Archive jobs",

	ScopeResumesAll:    "Full access to resume management",
	ScopeResumesRead:   "View resumes",
	ScopeResumesWrite:  "Upload and edit resumes",
	ScopeResumesDelete: "Delete resumes",

	ScopeRankingsAll:  "Full access to rankings",
	ScopeRankingsRead: "View rankings",
	ScopeRankingsRun:  "Trigger scoring runs",
}

// ScopeGroups defines role groupings for token issuance
var ScopeGroups = map[string][]string{
	"recruiter": {
		ScopeJobsRead,
		ScopeJobsWrite,
		ScopeResumesAll,
		ScopeRankingsRead,
		ScopeRankingsRun,
	},
	"hiring_manager": {
		ScopeJobsRead,
		ScopeResumesRead,
		ScopeRankingsRead,
	},
	"admin": {
		ScopeJobsAll,
		ScopeResumesAll,
		ScopeRankingsAll,
	},
}

// HasScope reports whether granted scopes satisfy the required one.
// A wildcard like "jobs:*" satisfies every scope in its family.
func HasScope(granted []string, required string) bool {
	family := required
	if i := strings.IndexByte(required, ':'); i >= 0 {
		family = required[:i] + ":*"
	}
	for _, s := range granted {
		if s == required || s == family {
			return true
		}
	}
	return false
}

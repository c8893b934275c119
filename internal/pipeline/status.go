package pipeline

import "errors"

// Stage is a canonical pipeline stage after alias resolution
type Stage string

const (
	StageNew         Stage = "New"
	StageScheduled   Stage = "Scheduled"
	StageInterviewed Stage = "Interviewed"
	StageOffered     Stage = "Offered"
	StageHired       Stage = "Hired"
	StageRejected    Stage = "Rejected"
)

// Badge is the style token used to color a status badge
type Badge string

const (
	BadgePurple    Badge = "purple"
	BadgePink      Badge = "pink"
	BadgeInfo      Badge = "info"
	BadgeWarning   Badge = "warning"
	BadgeSuccess   Badge = "success"
	BadgeDanger    Badge = "danger"
	BadgeSecondary Badge = "secondary"
)

var (
	ErrFinalStage     = errors.New("candidate is already at the final stage")
	ErrRejected       = errors.New("cannot advance a rejected candidate")
	ErrAlreadyAtStage = errors.New("candidate is already at this stage")
	ErrUnknownStage   = errors.New("unknown pipeline stage")
)

// forward is the ordered happy path. Rejected sits outside it.
var forward = []Stage{StageNew, StageScheduled, StageInterviewed, StageOffered, StageHired}

// Stages returns every canonical stage in display order, Rejected last
func Stages() []Stage {
	out := make([]Stage, 0, len(forward)+1)
	out = append(out, forward...)
	return append(out, StageRejected)
}

// Valid reports whether s is one of the six canonical stages
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Index returns the position of s in Stages(), or -1
func (s Stage) Index() int {
	for i, st := range Stages() {
		if st == s {
			return i
		}
	}
	return -1
}

// Terminal reports whether no forward transition exists from s
func (s Stage) Terminal() bool {
	return s == StageHired || s == StageRejected
}

func (s Stage) String() string {
	return string(s)
}

// Status is the resolved view of a raw lifecycle status string
type Status struct {
	Raw   string `json:"raw"`
	Stage Stage  `json:"stage"`
	Label string `json:"label"`
	Badge Badge  `json:"badge"`
}

type alias struct {
	raw   string
	stage Stage
	badge Badge
}

// aliases maps raw (possibly legacy) status values onto canonical stages.
// Order matters: first match wins.
var aliases = []alias{
	{"CV Received", StageNew, BadgePurple},
	{"New", StageNew, BadgePurple},
	{"", StageNew, BadgePurple},
	{"CV Shortlisted by Client", StageScheduled, BadgePink},
	{"Scheduled", StageScheduled, BadgePink},
	{"Interview Scheduled", StageInterviewed, BadgeInfo},
	{"Interviewed", StageInterviewed, BadgeInfo},
	{"Interview Completed", StageOffered, BadgeWarning},
	{"Offered", StageOffered, BadgeWarning},
	{"Selected", StageHired, BadgeSuccess},
	{"Offer Received", StageHired, BadgeSuccess},
	{"Hired", StageHired, BadgeSuccess},
	{"Rejected", StageRejected, BadgeDanger},
}

// Resolve maps a raw status onto its canonical stage, label and badge.
// Matching is exact and case-sensitive; anything unmatched is New/secondary.
func Resolve(raw string) Status {
	for _, a := range aliases {
		if a.raw == raw {
			return Status{Raw: raw, Stage: a.stage, Label: string(a.stage), Badge: a.badge}
		}
	}
	return Status{Raw: raw, Stage: StageNew, Label: string(StageNew), Badge: BadgeSecondary}
}

// Advance returns the stage after current on the happy path.
// Hired and Rejected return an error and must not produce a mutation.
func Advance(current Stage) (Stage, error) {
	switch current {
	case StageNew:
		return StageScheduled, nil
	case StageScheduled:
		return StageInterviewed, nil
	case StageInterviewed:
		return StageOffered, nil
	case StageOffered:
		return StageHired, nil
	case StageHired:
		return current, ErrFinalStage
	case StageRejected:
		return current, ErrRejected
	default:
		return StageScheduled, nil
	}
}

// JumpTo moves directly to target. No ordering is enforced: any stage may
// be reached from any other, backwards included.
func JumpTo(current, target Stage) (Stage, error) {
	if !target.Valid() {
		return current, ErrUnknownStage
	}
	if target == current {
		return current, ErrAlreadyAtStage
	}
	return target, nil
}

// Reject moves a non-terminal stage to Rejected
func Reject(current Stage) (Stage, error) {
	if current == StageHired {
		return current, ErrFinalStage
	}
	return JumpTo(current, StageRejected)
}

// IsSignal reports whether err is one of the informational transition
// outcomes (final stage, already there) rather than a refusal
func IsSignal(err error) bool {
	return errors.Is(err, ErrFinalStage) || errors.Is(err, ErrAlreadyAtStage)
}

package domain

import "time"

// Field identifies one editable progress field on the board.
type Field string

const (
	FieldDailyQuest Field = "daily_quest"
	FieldNestRaid   Field = "nest_raid"
	FieldWorldBoss  Field = "world_boss"
	FieldBlessing   Field = "blessing"
)

// DailyQuestStatus is the state of the daily quest chain.
type DailyQuestStatus string

const (
	DailyNotStarted DailyQuestStatus = "Not Started"
	DailyInProgress DailyQuestStatus = "In Progress"
	DailyCompleted  DailyQuestStatus = "Completed"
)

// NestRaidStatus is the weekly nest raid state. It shares label text with
// WorldBossStatus but is a separate type: the two fields mean different things
// and must not be assignable to each other.
type NestRaidStatus string

const (
	NestNotCleared NestRaidStatus = "Not Cleared"
	NestCleared    NestRaidStatus = "Cleared"
	NestSkipped    NestRaidStatus = "Skipped"
)

// WorldBossStatus is the weekly world boss state.
type WorldBossStatus string

const (
	BossNotCleared WorldBossStatus = "Not Cleared"
	BossCleared    WorldBossStatus = "Cleared"
	BossSkipped    WorldBossStatus = "Skipped"
)

// BlessingState is the timed buff flag. Setting it to Active stamps the
// activation time; the buff expires BlessingWindow after that instant.
type BlessingState string

const (
	BlessingActive   BlessingState = "Active"
	BlessingInactive BlessingState = "Inactive"
)

// BlessingWindow is how long a blessing stays valid after activation.
const BlessingWindow = 7 * 24 * time.Hour

var fieldLabels = map[Field][]string{
	FieldDailyQuest: {string(DailyNotStarted), string(DailyInProgress), string(DailyCompleted)},
	FieldNestRaid:   {string(NestNotCleared), string(NestCleared), string(NestSkipped)},
	FieldWorldBoss:  {string(BossNotCleared), string(BossCleared), string(BossSkipped)},
	FieldBlessing:   {string(BlessingActive), string(BlessingInactive)},
}

// fieldOrder is the display order of the board columns.
var fieldOrder = []Field{FieldDailyQuest, FieldNestRaid, FieldWorldBoss, FieldBlessing}

// Fields returns all editable fields in display order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// KnownField reports whether f is an editable progress field.
func KnownField(f Field) bool {
	_, ok := fieldLabels[f]
	return ok
}

// ValidValue reports whether v belongs to f's label set.
func ValidValue(f Field, v string) bool {
	for _, label := range fieldLabels[f] {
		if label == v {
			return true
		}
	}
	return false
}

// DefaultFields is the field map of a character with no recorded progress.
func DefaultFields() map[Field]string {
	return map[Field]string{
		FieldDailyQuest: string(DailyNotStarted),
		FieldNestRaid:   string(NestNotCleared),
		FieldWorldBoss:  string(BossNotCleared),
		FieldBlessing:   string(BlessingInactive),
	}
}

// ProgressState is one character's persisted progress for one day.
type ProgressState struct {
	CharacterID   int64
	Date          time.Time // midnight UTC
	Fields        map[Field]string
	BlessingSince *time.Time
}

// Clone deep-copies the state so a caller can hold it across later edits.
func (p ProgressState) Clone() ProgressState {
	out := p
	out.Fields = make(map[Field]string, len(p.Fields))
	for k, v := range p.Fields {
		out.Fields[k] = v
	}
	if p.BlessingSince != nil {
		t := *p.BlessingSince
		out.BlessingSince = &t
	}
	return out
}

// BlessingExpired reports whether the blessing window has passed. A blessing
// activated at T is still valid at exactly T+BlessingWindow.
func (p ProgressState) BlessingExpired(now time.Time) bool {
	if p.BlessingSince == nil {
		return false
	}
	return now.After(p.BlessingSince.Add(BlessingWindow))
}

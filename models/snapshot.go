package models

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = 2

// Snapshot is the full serializable tournament state: the active
// modality plus team lists, brackets and lock flags keyed by modality.
// It is both the persistence format and the export/import interchange
// format.
type Snapshot struct {
	Modality          Modality              `json:"modality"`
	TeamsByModality   map[Modality][]string `json:"teamsByModality"`
	BracketByModality map[Modality]Bracket  `json:"bracketByModality"`
	LockedByModality  map[Modality]bool     `json:"lockedByModality"`
	Version           int                   `json:"version"`
}

// EmptySnapshot returns the initial state: both modalities present,
// no teams, no brackets, nothing locked.
func EmptySnapshot() Snapshot {
	s := Snapshot{
		Modality:          DefaultModality,
		TeamsByModality:   make(map[Modality][]string),
		BracketByModality: make(map[Modality]Bracket),
		LockedByModality:  make(map[Modality]bool),
		Version:           SnapshotVersion,
	}
	for _, m := range Modalities() {
		s.TeamsByModality[m] = []string{}
		s.BracketByModality[m] = nil
		s.LockedByModality[m] = false
	}
	return s
}

package models

// Modality identifies one of the two sports the organizer runs.
type Modality string

const (
	ModalityFutsal Modality = "futsal"
	ModalityVolei  Modality = "volei"
)

// DefaultModality is used whenever an imported snapshot carries an
// unknown modality value.
const DefaultModality = ModalityFutsal

func (m Modality) Valid() bool {
	switch m {
	case ModalityFutsal, ModalityVolei:
		return true
	}
	return false
}

// Modalities lists every known modality in a stable order.
func Modalities() []Modality {
	return []Modality{ModalityFutsal, ModalityVolei}
}

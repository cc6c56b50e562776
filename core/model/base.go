// Package model provides the estimator state shared by carprep transformers
// and the object persistence helper used to store fitted preprocessors.
//
// Transformers embed BaseEstimator to track whether they have been fitted:
//
//	type MyTransformer struct {
//		model.BaseEstimator
//		// learned state
//	}
//
//	func (m *MyTransformer) Fit(data [][]string) error {
//		// learning logic
//		m.SetFitted()
//		return nil
//	}
//
// Persistence stores only learned state, wrapped in a versioned JSON envelope.
// See SaveObject and LoadObject.
package model

// EstimatorState represents the learning state of a transformer
type EstimatorState int

const (
	// NotFitted indicates the transformer has not learned from data yet
	NotFitted EstimatorState = iota
	// Fitted indicates the transformer holds learned state
	Fitted
)

// BaseEstimator is the base structure for all transformers
type BaseEstimator struct {
	// State holds the learning state.
	State EstimatorState

	// ModelType identifies the type of transformer
	ModelType string

	// Version is the transformer version
	Version string
}

// IsFitted returns whether the transformer has been fitted.
//
// Example:
//
//	if !encoder.IsFitted() {
//	    if err := encoder.Fit(data); err != nil {
//	        return err
//	    }
//	}
func (e *BaseEstimator) IsFitted() bool {
	return e.State == Fitted
}

// SetFitted marks the transformer as fitted. Only implementations call it,
// at the end of a successful Fit.
func (e *BaseEstimator) SetFitted() {
	e.State = Fitted
}

// Reset returns the transformer to its initial unfitted state.
func (e *BaseEstimator) Reset() {
	e.State = NotFitted
}

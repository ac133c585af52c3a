// Package feature defines the fixed input schema for the heart-disease
// classifier and validation of inbound request payloads against it.
//
// The 13 features and their order are part of the model contract: the
// training pipeline emits an artifact whose manifest must match Names
// exactly, and Record.Vector yields values in that same order.
package feature

// Names lists the canonical feature names in training order.
var Names = []string{
	"age", "sex", "cp", "trestbps", "chol", "fbs", "restecg",
	"thalach", "exang", "oldpeak", "slope", "ca", "thal",
}

// Count is the number of features in the canonical schema.
const Count = 13

// Record holds one subject's feature values. All fields are required;
// integer-valued inputs are widened to float64. Immutable once built.
type Record struct {
	Age      float64 `json:"age"`
	Sex      float64 `json:"sex"`
	CP       float64 `json:"cp"`
	Trestbps float64 `json:"trestbps"`
	Chol     float64 `json:"chol"`
	FBS      float64 `json:"fbs"`
	Restecg  float64 `json:"restecg"`
	Thalach  float64 `json:"thalach"`
	Exang    float64 `json:"exang"`
	Oldpeak  float64 `json:"oldpeak"`
	Slope    float64 `json:"slope"`
	CA       float64 `json:"ca"`
	Thal     float64 `json:"thal"`
}

// Vector returns the feature values in canonical order.
func (r Record) Vector() []float64 {
	return []float64{
		r.Age, r.Sex, r.CP, r.Trestbps, r.Chol, r.FBS, r.Restecg,
		r.Thalach, r.Exang, r.Oldpeak, r.Slope, r.CA, r.Thal,
	}
}

// fromValues builds a Record from values in canonical order.
// The caller guarantees len(values) == Count.
func fromValues(values []float64) Record {
	return Record{
		Age:      values[0],
		Sex:      values[1],
		CP:       values[2],
		Trestbps: values[3],
		Chol:     values[4],
		FBS:      values[5],
		Restecg:  values[6],
		Thalach:  values[7],
		Exang:    values[8],
		Oldpeak:  values[9],
		Slope:    values[10],
		CA:       values[11],
		Thal:     values[12],
	}
}

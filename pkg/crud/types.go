package crud

import "math"

// Config holds the two settings a client is bound to for its lifetime.
type Config struct {
	APIKey  string
	BaseURL string
}

func (c Config) validate() error {
	if c.APIKey == "" || c.BaseURL == "" {
		return newError(ErrConfig, msgConfigRequired)
	}
	return nil
}

// Item is the record stored by the service.
type Item struct {
	Value  float64 `json:"value"`
	TxHash string  `json:"txHash"`
}

// CreateData is the payload for Create. Both fields are required.
type CreateData struct {
	Value  float64 `json:"value"`
	TxHash string  `json:"txHash"`
}

func (d CreateData) validate() error {
	if !isNumber(d.Value) {
		return newError(ErrValidation, msgInvalidCreate)
	}
	return nil
}

// UpdateData is a partial record; nil fields are left untouched by the
// service. At least one field must be present.
type UpdateData struct {
	Value  *float64 `json:"value,omitempty"`
	TxHash *string  `json:"txHash,omitempty"`
}

// SetValue marks value as present.
func (d UpdateData) SetValue(v float64) UpdateData {
	d.Value = &v
	return d
}

// SetTxHash marks txHash as present.
func (d UpdateData) SetTxHash(h string) UpdateData {
	d.TxHash = &h
	return d
}

// Fields lists the JSON names of the fields that are present.
func (d UpdateData) Fields() []string {
	fields := make([]string, 0, 2)
	if d.Value != nil {
		fields = append(fields, "value")
	}
	if d.TxHash != nil {
		fields = append(fields, "txHash")
	}
	return fields
}

// Empty reports whether no field is present.
func (d UpdateData) Empty() bool {
	return len(d.Fields()) == 0
}

func (d UpdateData) validate() error {
	if d.Empty() {
		return newError(ErrValidation, msgUpdateRequired)
	}
	if d.Value != nil && !isNumber(*d.Value) {
		return newError(ErrValidation, msgInvalidCreate)
	}
	return nil
}

// CreateResult is returned by Create.
type CreateResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GetResult is returned by Get.
type GetResult struct {
	Value  float64 `json:"value"`
	TxHash string  `json:"txHash"`
}

// UpdateResult is returned by Update.
type UpdateResult struct {
	Status string `json:"status"`
}

// DeleteResult is returned by Delete.
type DeleteResult struct {
	Status string `json:"status"`
}

// NaN and the infinities cannot be encoded as JSON numbers.
func isNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

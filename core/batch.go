package core

import "fmt"

// RecordResult is the outcome of a single record of a batch store operation.
type RecordResult struct {
	Index   int // position in the submitted batch
	ID      int
	Success bool
	Message string
	Err     error `json:"-"`
}

// BatchReport holds one RecordResult per submitted record, in submission order.
type BatchReport []RecordResult

func (r BatchReport) Failed() BatchReport {
	var failed BatchReport
	for _, res := range r {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

func (r BatchReport) SucceededIDs() []int {
	ids := make([]int, 0, len(r))
	for _, res := range r {
		if res.Success {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

// Err returns a *PartialFailure carrying the first failing record's message, or nil when every record succeeded.
func (r BatchReport) Err(op string) error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	msg := failed[0].Message
	if msg == "" {
		msg = fmt.Sprintf("failed to %s", op)
	}
	return &PartialFailure{
		Op:        op,
		Message:   msg,
		Failed:    len(failed),
		Total:     len(r),
		Succeeded: r.SucceededIDs(),
	}
}

// Succeed and Fail build RecordResults for store implementations.
func Succeed(idx, id int) RecordResult {
	return RecordResult{Index: idx, ID: id, Success: true}
}

func Fail(idx, id int, err error) RecordResult {
	return RecordResult{Index: idx, ID: id, Message: err.Error(), Err: err}
}

type batchConfig struct {
	allowPartial bool
}

// BatchOption configures how services treat partially failed batches.
type BatchOption func(*batchConfig)

// AllowPartial makes batch operations return the records that succeeded along with the *PartialFailure.
func AllowPartial() BatchOption {
	return func(c *batchConfig) { c.allowPartial = true }
}

// PartialAllowed reports whether opts request the succeeded subset of a failed batch.
func PartialAllowed(opts []BatchOption) bool {
	var c batchConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c.allowPartial
}

package core

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type Status int // Status of the job as seen by the submitter.
type Counts map[string]uint32

// StateVector is the wire form of a complex amplitude vector, one
// [real, imaginary] pair per basis state.
type StateVector [][2]float64

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal core.Counts")
		return ""
	}
	return string(st)
}

func (s StateVector) String() string {
	st, err := jsonIter.Marshal(s)
	if err != nil {
		zap.L().Error("Failed to marshal core.StateVector")
		return ""
	}
	return string(st)
}

func ToStatus(s string) (Status, error) {
	switch s {
	case "submitted":
		return SUBMITTED, nil
	case "ready":
		return READY, nil
	case "running":
		return RUNNING, nil
	case "succeeded":
		return SUCCEEDED, nil
	case "failed":
		return FAILED, nil
	case "cancelled":
		return CANCELLED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

const (
	SUBMITTED Status = iota // In the submitter's queue, not yet handed to the engine.
	READY                   // Accepted by the engine but not yet simulated. All jobs start here.
	RUNNING                 // Being simulated.
	SUCCEEDED               // Finished successfully.
	FAILED                  // Finished with failure.
	CANCELLED               // Finished with cancellation.
)

func (s Status) String() string {
	switch s {
	case SUBMITTED:
		return "submitted"
	case READY:
		return "ready"
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	case CANCELLED:
		return "cancelled"
	default:
		return "unknown"
	}
}

type Result struct {
	Counts        Counts        `json:"counts"`
	Probabilities []float64     `json:"probabilities"`
	StateVector   StateVector   `json:"state_vector,omitempty"`
	ShotRecords   []string      `json:"shot_records,omitempty"`
	Message       string        `json:"message"`
	ExecutionTime time.Duration `json:"execution_time"`
}

func cloneCounts(counts Counts) Counts {
	clone := make(Counts)
	for k, v := range counts {
		clone[k] = v
	}
	return clone
}

type JobData struct {
	ID      string
	Status  Status
	Shots   int
	Program string // JSON circuit program as submitted.
	Seed    *int64 // nil means the engine draws its own seed.
	Result  *Result
	JobType string
	Created strfmt.DateTime
	Ended   strfmt.DateTime
	Info    string
}

func (jd *JobData) Clone() *JobData {
	c := deepcopy.Copy(jd).(*JobData)
	c.Created = *jd.Created.DeepCopy()
	c.Ended = *jd.Ended.DeepCopy()
	return c
}

func NewResult() *Result {
	return &Result{
		Counts: make(Counts),
	}
}

func NewJobData() *JobData {
	return &JobData{
		Result:  NewResult(),
		Created: strfmt.DateTime(time.Now()),
	}
}

func CloneJobData(i *JobData) *JobData {
	o := NewJobData()
	o.ID = i.ID
	o.Status = i.Status
	o.Shots = i.Shots
	o.Program = i.Program
	if i.Seed != nil {
		seed := *i.Seed
		o.Seed = &seed
	}
	o.Result.Counts = cloneCounts(i.Result.Counts)
	o.Result.Probabilities = append([]float64(nil), i.Result.Probabilities...)
	o.Result.StateVector = append(StateVector(nil), i.Result.StateVector...)
	o.Result.ShotRecords = append([]string(nil), i.Result.ShotRecords...)
	o.Result.Message = i.Result.Message
	o.Result.ExecutionTime = i.Result.ExecutionTime
	o.JobType = i.JobType
	o.Created = i.Created
	o.Ended = i.Ended
	o.Info = i.Info
	return o
}

func (r *Result) ToString() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal core.Result")
		return ""
	}
	st = pretty.Pretty(st)
	return string(st)
}

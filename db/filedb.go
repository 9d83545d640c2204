package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-openapi/strfmt"
	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"github.com/qsim-lab/qsim-engine/simcore/core"
)

// FileDB persists every job snapshot as a JSON file so results survive
// an engine restart and a submitter can read them off the shared
// directory. Jobs are also kept in memory to hand live Job values back
// to the scheduler.
type FileDB struct {
	dir  string
	dbc  core.DBChan
	jobs map[string]core.Job
	mu   sync.RWMutex
}

type jobRecord struct {
	JobID   string          `json:"job_id"`
	Status  string          `json:"status"`
	Shots   int             `json:"shots"`
	Program string          `json:"program"`
	Seed    *int64          `json:"seed,omitempty"`
	JobType string          `json:"job_type"`
	Result  *core.Result    `json:"result"`
	Created strfmt.DateTime `json:"created"`
	Ended   strfmt.DateTime `json:"ended,omitempty"`
}

func toJobRecord(jd *core.JobData) *jobRecord {
	return &jobRecord{
		JobID:   jd.ID,
		Status:  jd.Status.String(),
		Shots:   jd.Shots,
		Program: jd.Program,
		Seed:    jd.Seed,
		JobType: jd.JobType,
		Result:  jd.Result,
		Created: jd.Created,
		Ended:   jd.Ended,
	}
}

func toJobData(r *jobRecord) (*core.JobData, error) {
	st, err := core.ToStatus(r.Status)
	if err != nil {
		return nil, err
	}
	jd := core.NewJobData()
	jd.ID = r.JobID
	jd.Status = st
	jd.Shots = r.Shots
	jd.Program = r.Program
	jd.Seed = r.Seed
	jd.JobType = r.JobType
	if r.Result != nil {
		jd.Result = r.Result
	}
	jd.Created = r.Created
	jd.Ended = r.Ended
	return jd, nil
}

func (f *FileDB) Setup(dbc core.DBChan, c *core.Conf) error {
	zap.L().Debug("Setting up File DB")
	if err := os.MkdirAll(c.ResultsDir, 0755); err != nil {
		zap.L().Error(fmt.Sprintf("failed to make results dir/reason:%s", err))
		return err
	}
	f.dir = c.ResultsDir
	f.dbc = dbc
	f.jobs = make(map[string]core.Job)
	go func() {
		for {
			job := <-f.dbc
			if job == nil { //when dbChan is closed
				return
			}
			zap.L().Debug(fmt.Sprintf("[FileDB] Received %s", job.JobData().ID))
			if err := f.Update(job); err != nil {
				zap.L().Error(fmt.Sprintf("failed to update a job(%s). Reason:%s",
					job.JobData().ID, err.Error()))
			}
		}
	}()
	return nil
}

func (f *FileDB) Insert(j core.Job) error {
	return f.Update(j)
}

func (f *FileDB) Get(jobID string) (core.Job, error) {
	f.mu.RLock()
	job, ok := f.jobs[jobID]
	f.mu.RUnlock()
	if ok {
		return job, nil
	}
	raw, err := os.ReadFile(f.recordPath(jobID))
	if err != nil {
		return &core.NormalJob{}, fmt.Errorf("not found %s", jobID)
	}
	r := &jobRecord{}
	if err := jsoniter.Unmarshal(raw, r); err != nil {
		return &core.NormalJob{}, fmt.Errorf("failed to read the record of %s/reason:%s", jobID, err)
	}
	jd, err := toJobData(r)
	if err != nil {
		return &core.NormalJob{}, fmt.Errorf("failed to read the record of %s/reason:%s", jobID, err)
	}
	jc, err := core.NewJobContext()
	if err != nil {
		return &core.NormalJob{}, err
	}
	return core.GetJobManager().NewJobFromJobData(jd, jc)
}

func (f *FileDB) Update(j core.Job) error {
	jd := j.JobData()
	f.mu.Lock()
	f.jobs[jd.ID] = j
	f.mu.Unlock()
	raw, err := jsoniter.Marshal(toJobRecord(jd))
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal the record of %s/reason:%s", jd.ID, err))
		return err
	}
	return f.writeRecord(jd.ID, pretty.Pretty(raw))
}

func (f *FileDB) Delete(jobID string) error {
	f.mu.Lock()
	delete(f.jobs, jobID)
	f.mu.Unlock()
	if err := os.Remove(f.recordPath(jobID)); err != nil && !os.IsNotExist(err) {
		zap.L().Error(fmt.Sprintf("failed to delete the record of %s/reason:%s", jobID, err))
		return err
	}
	return nil
}

func (f *FileDB) recordPath(jobID string) string {
	return filepath.Join(f.dir, jobID+".json")
}

// write through a temp file so a reader never sees a half record
func (f *FileDB) writeRecord(jobID string, raw []byte) error {
	path := f.recordPath(jobID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		zap.L().Error(fmt.Sprintf("failed to write the record of %s/reason:%s", jobID, err))
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		zap.L().Error(fmt.Sprintf("failed to place the record of %s/reason:%s", jobID, err))
		return err
	}
	return nil
}

package poller

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/qsim-lab/qsim-engine/simcore/core"
	"github.com/qsim-lab/qsim-engine/simcore/sampling"
	"github.com/qsim-lab/qsim-engine/simcore/statejob"
)

const pickedDirName = "picked"

// spoolClient reads job files from the spool directory. A picked file
// is moved to the picked subdirectory before parsing so a crashed run
// never hands the same file to the scheduler twice.
type spoolClient struct {
	spoolDir  string
	pickedDir string
	count     int
}

type spoolClientParams struct {
	spoolDir string
	count    int
}

type jobFile struct {
	JobID   string              `json:"job_id"`
	JobType string              `json:"job_type"`
	Shots   int                 `json:"shots"`
	Seed    *int64              `json:"seed,omitempty"`
	Circuit jsoniter.RawMessage `json:"circuit"`
}

func newSpoolClient(p *spoolClientParams) (*spoolClient, error) {
	if err := os.MkdirAll(p.spoolDir, 0755); err != nil {
		zap.L().Error(fmt.Sprintf("failed to make spool dir/reason:%s", err))
		return nil, err
	}
	pickedDir := filepath.Join(p.spoolDir, pickedDirName)
	if err := os.MkdirAll(pickedDir, 0755); err != nil {
		zap.L().Error(fmt.Sprintf("failed to make picked dir/reason:%s", err))
		return nil, err
	}
	return &spoolClient{
		spoolDir:  p.spoolDir,
		pickedDir: pickedDir,
		count:     p.count,
	}, nil
}

func (c *spoolClient) request() ([]core.Job, error) {
	zap.L().Debug(fmt.Sprintf("scanning spool dir %s", c.spoolDir))
	entries, err := os.ReadDir(c.spoolDir)
	if err != nil {
		return []core.Job{}, fmt.Errorf("failed to read spool dir/reason:%s", err)
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	if len(names) > c.count {
		names = names[:c.count]
	}
	jobs := []core.Job{}
	for _, name := range names {
		job, err := c.pickJob(name)
		if err != nil {
			zap.L().Error(fmt.Sprintf("failed to pick %s/reason:%s", name, err))
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (c *spoolClient) pickJob(name string) (core.Job, error) {
	src := filepath.Join(c.spoolDir, name)
	dst := filepath.Join(c.pickedDir, name)
	if err := os.Rename(src, dst); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(dst)
	if err != nil {
		return nil, err
	}
	return toJob(raw)
}

func toJob(raw []byte) (core.Job, error) {
	jm := core.GetJobManager()
	jc, err := core.NewJobContext()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to create a job context. Reason:%s", err))
		return nil, err
	}
	jf := &jobFile{}
	jd := core.NewJobData()
	jd.Status = core.READY
	if err := jsoniter.Unmarshal(raw, jf); err != nil {
		jd.ID = uuid.NewString()
		msg := core.SetFailureWithErrorToJobData(jd,
			fmt.Errorf("failed to parse job file:%s", err))
		zap.L().Error(fmt.Sprintf("Failed to parse a job file. Reason:%s", msg))
		return (&core.UnknownJob{}).New(jd, jc), nil
	}
	jd.ID = jf.JobID
	if jd.ID == "" {
		jd.ID = uuid.NewString()
	}
	jd.Program = string(jf.Circuit)
	jd.Shots = jf.Shots
	jd.Seed = jf.Seed

	switch jf.JobType {
	case "", "normal":
		jd.JobType = core.NORMAL_JOB
	case "sampling":
		jd.JobType = sampling.SAMPLING_JOB
	case "get_state":
		jd.JobType = statejob.STATE_JOB
	default:
		msg := fmt.Sprintf("unknown job type %s", jf.JobType)
		zap.L().Error(msg)
		return nil, fmt.Errorf(msg)
	}

	newJob, err := jm.NewJobFromJobDataWithValidation(jd, jc)
	if err != nil {
		msg := core.SetFailureWithErrorToJobData(jd, err)
		zap.L().Error(fmt.Sprintf("Failed to validate a job. Reason:%s", msg))
		newJob = (&core.UnknownJob{}).New(jd, jc)
	} else {
		zap.L().Debug(fmt.Sprintf("Created a job. Job ID:%s created:%s, status:%s",
			jd.ID, jd.Created, jd.Status))
	}
	return newJob, nil
}

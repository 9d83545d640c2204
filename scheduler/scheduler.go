package scheduler

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/qsim-lab/qsim-engine/simcore/core"
)

type statusManager struct {
	statusHistory map[string][]core.Status
	mu            sync.RWMutex
}

func newStatusManager() *statusManager {
	return &statusManager{
		statusHistory: make(map[string][]core.Status),
		mu:            sync.RWMutex{},
	}
}

func (s *statusManager) Record(jobID string, status core.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusHistory[jobID] = append(s.statusHistory[jobID], status)
}

func (s *statusManager) Update(job core.Job, status core.Status) {
	job.JobData().Status = status
	s.Record(job.JobData().ID, status)
}

func (s *statusManager) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statusHistory, jobID)
}

func (s *statusManager) Get(jobID string) []core.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusHistory[jobID]
}

// NormalScheduler drives a job through PreProcess, Process and
// PostProcess, writing a snapshot to the DB channel at every status
// change. Process runs on a single queue consumer so the simulator is
// never invoked concurrently.
type NormalScheduler struct {
	queue         *NormalQueue
	statusManager *statusManager
}

type jobInScheduler struct {
	job      core.Job
	finished *sync.WaitGroup
}

func (n *NormalScheduler) Setup(conf *core.Conf) error {
	n.queue = &NormalQueue{}
	n.queue.Setup(conf)
	n.statusManager = newStatusManager()
	return nil
}

func (n *NormalScheduler) Start() error {
	go func() {
		for {
			zap.L().Debug("checking the queue...")
			jis, err := n.queue.Dequeue(true)
			if err != nil {
				zap.L().Error(fmt.Sprintf("failed to get a job from queue. Reason:%s", err))
				continue
			}
			jid := jis.job.JobData().ID
			zap.L().Debug(fmt.Sprintf("processing job:%s", jid))
			n.statusManager.Update(jis.job, core.RUNNING)
			jis.job.JobContext().DBChan <- jis.job.Clone()
			n.processJob(jis.job)
			zap.L().Debug(fmt.Sprintf("finished to process job(%s), status:%s", jid, jis.job.JobData().Status))
			jis.finished.Done()
		}
	}()
	return nil
}

func (n *NormalScheduler) processJob(j core.Job) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error(fmt.Sprintf("recovered from a panic in job(%s) processing:%v", j.JobData().ID, r))
			j.JobData().Status = core.FAILED
			if j.JobData().Result != nil {
				j.JobData().Result.Message = fmt.Sprintf("panic in processing:%v", r)
			}
		}
	}()
	j.Process()
}

func (n *NormalScheduler) HandleJob(j core.Job) {
	zap.L().Debug(fmt.Sprintf("starting to handle job(%s) in %s", j.JobData().ID, j.JobData().Status))
	go func() {
		defer func() {
			zap.L().Debug(fmt.Sprintf("status history job(%s): %v", j.JobData().ID, n.statusManager.Get(j.JobData().ID)))
			n.statusManager.Delete(j.JobData().ID)
		}()
		n.handleImpl(j)
	}()
}

func (n *NormalScheduler) HandleJobForTest(j core.Job, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		n.handleImpl(j)
	}()
}

func (n *NormalScheduler) handleImpl(j core.Job) {
	for {
		jid := j.JobData().ID
		st := j.JobData().Status // must be ready
		n.statusManager.Record(jid, st)
		zap.L().Debug(fmt.Sprintf("handling job(%s) in %s starting", jid, st))
		if j.JobData().Status != core.READY {
			zap.L().Error(
				fmt.Sprintf("finished to handle job(%s) with unexpected status:%s", jid, j.JobData().Status.String()))
			// not written to DB
			return
		}
		zap.L().Debug(fmt.Sprintf("handling job(%s). start pre-processing", jid))
		j.PreProcess()
		j.JobContext().DBChan <- j.Clone()
		if j.IsFinished() {
			zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after pre-processing", jid))
			n.statusManager.Record(jid, j.JobData().Status)
			return
		}
		var wg sync.WaitGroup
		wg.Add(1)
		jis := &jobInScheduler{
			job:      j,
			finished: &wg,
		}
		n.queue.queueChan <- jis
		wg.Wait() // wait for processing
		zap.L().Debug(fmt.Sprintf("Processed Job Status: %s", j.JobData().Status))
		if j.IsFinished() {
			zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after processing with status:%s",
				jid, j.JobData().Status.String()))
			n.statusManager.Record(jid, j.JobData().Status)
			j.JobContext().DBChan <- j.Clone()
			return
		}
		zap.L().Debug(fmt.Sprintf("handling job(%s). start post-processing", jid))
		j.PostProcess()
		if j.IsFinished() {
			zap.L().Debug(fmt.Sprintf("finished to handle job(%s) after post-processing with status:%s",
				jid, j.JobData().Status.String()))
			n.statusManager.Record(jid, j.JobData().Status)
			j.JobContext().DBChan <- j.Clone()
			return
		}
		zap.L().Debug(fmt.Sprintf("one more loop for job(%s)", jid))
	}
}

func (n *NormalScheduler) GetCurrentQueueSize() int {
	return n.queue.fifo.GetLen()
}

func (n *NormalScheduler) IsOverRefillThreshold() bool {
	return n.queue.refillThreshold <= n.queue.fifo.GetLen()
}

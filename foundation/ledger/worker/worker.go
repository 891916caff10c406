// Package worker implements the consensus loop, peer updates, and
// transaction sharing for the ledger node.
package worker

import (
	"sync"
	"time"

	"github.com/anovaledger/anova/foundation/ledger/database"
	"github.com/anovaledger/anova/foundation/ledger/state"
)

// peerUpdateInterval represents the interval for finding new peer nodes.
const peerUpdateInterval = time.Minute

// consensusInterval represents the interval for attempting a consensus
// round when no explicit signal arrives.
const consensusInterval = 10 * time.Second

// =============================================================================

// Worker manages the background workflows for the ledger node.
type Worker struct {
	state          *state.State
	params         Params
	wg             sync.WaitGroup
	peerTicker     *time.Ticker
	proposalTicker *time.Ticker
	shut           chan struct{}
	startConsensus chan bool
	txSharing      chan database.Tx
	evHandler      state.EventHandler
	baseURL        string
}

// Params represent the snowball protocol parameters the consensus loop
// runs with.
type Params struct {
	SampleSize        uint
	QuorumSize        uint
	DecisionThreshold uint
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, params Params, evHandler state.EventHandler) {
	w := Worker{
		state:          st,
		params:         params,
		peerTicker:     time.NewTicker(peerUpdateInterval),
		proposalTicker: time.NewTicker(consensusInterval),
		shut:           make(chan struct{}),
		startConsensus: make(chan bool, 1),
		txSharing:      make(chan database.Tx, maxTxShareRequests),
		evHandler:      evHandler,
		baseURL:        "http://%s/v1/node",
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.consensusOperations,
		w.shareTxOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop tickers")
	w.peerTicker.Stop()
	w.proposalTicker.Stop()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartConsensus starts a consensus operation. If there is already
// a signal pending in the channel, just return since an operation will start.
func (w *Worker) SignalStartConsensus() {
	select {
	case w.startConsensus <- true:
	default:
	}
	w.evHandler("worker: SignalStartConsensus: consensus signaled")
}

// SignalShareTx queues up a share transaction operation. If
// maxTxShareRequests signals exist in the channel, we won't send these.
func (w *Worker) SignalShareTx(tx database.Tx) {
	select {
	case w.txSharing <- tx:
		w.evHandler("worker: SignalShareTx: share Tx signaled")
	default:
		w.evHandler("worker: SignalShareTx: queue full, Tx share dropped")
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}

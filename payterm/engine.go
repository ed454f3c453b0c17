package payterm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"pos-api/config"
	"pos-api/models"
)

// Params carries everything a strategy may need. Each kind validates
// its own required subset before any log row is created.
type Params struct {
	Amount      *Amount
	OrderID     *uint
	InvoiceNo   string
	RefNo       string
	RecordNo    string
	AuthCode    string
	AcqRefData  string
	ProcessData string

	BatchItemCount string
	NetBatchTotal  string
	BatchNo        string
}

// Result is the outcome of one Process call. Failures are values, not
// panics: validation errors carry no TransactionID, every dispatched
// attempt carries the id of its audit row.
type Result struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message,omitempty"`
	Error         string              `json:"error,omitempty"`
	TransactionID uint                `json:"transaction_id,omitempty"`
	Data          *NormalizedResponse `json:"data,omitempty"`
}

// strategy is the kind-specific part of the shared execution template:
// which codes it owns, what it validates, and which extra fields it
// writes into the request.
type strategy interface {
	codes() []string
	root() RootKind
	tranType() string
	validate(tranCode string, p Params) error
	fill(req *Request, p Params) error
}

// Engine drives one physical terminal. All transaction issuance for
// the device is serialized so sequence derivation never races.
type Engine struct {
	cfg        config.TerminalConfig
	store      LogStore
	sender     Sender
	seq        SequenceSource
	strategies map[string]strategy

	mu sync.Mutex // serializes the device
}

// NewEngine wires the closed set of transaction strategies. The
// sequence source and sender are injected so tests can fake them.
func NewEngine(cfg config.TerminalConfig, store LogStore, sender Sender, seq SequenceSource) *Engine {
	e := &Engine{
		cfg:        cfg,
		store:      store,
		sender:     sender,
		seq:        seq,
		strategies: make(map[string]strategy),
	}
	for _, s := range []strategy{
		&saleStrategy{},
		&returnStrategy{},
		&voidByRecordStrategy{},
		&preAuthStrategy{},
		&preAuthCaptureStrategy{},
		&recordNoStrategy{},
		&batchStrategy{},
		&paramDownloadStrategy{},
	} {
		e.Register(s)
	}
	return e
}

// Register maps each of the strategy's codes to it. Last registration
// for a code wins, which lets tests override single kinds.
func (e *Engine) Register(s strategy) {
	for _, code := range s.codes() {
		e.strategies[code] = s
	}
}

// SupportedCodes lists every registered transaction code, sorted.
func (e *Engine) SupportedCodes() []string {
	codes := make([]string, 0, len(e.strategies))
	for code := range e.strategies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Process runs the fixed template: validate, build, log pending, send,
// decode, classify, finalize. It is the only entry point; callers
// never reach a strategy directly.
func (e *Engine) Process(ctx context.Context, tranCode string, p Params) Result {
	s, ok := e.strategies[tranCode]
	if !ok {
		return Result{Error: fmt.Sprintf(
			"unsupported tran code %q, supported: %s",
			tranCode, strings.Join(e.SupportedCodes(), ", "),
		)}
	}

	// Validation failures are not audited as attempts.
	if err := s.validate(tranCode, p); err != nil {
		return Result{Error: err.Error()}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	req := &Request{
		MerchantID:   e.cfg.MerchantID,
		TerminalID:   e.cfg.DeviceID,
		SecureDevice: e.cfg.SecureDevice,
		POSPackageID: e.cfg.POSPackageID,
		TranType:     s.tranType(),
		TranCode:     tranCode,
		SequenceNo:   e.seq.NextSequence(),
		InvoiceNo:    p.InvoiceNo,
	}
	if req.InvoiceNo == "" && s.root() == RootTransaction {
		req.InvoiceNo = uuid.NewString()
	}
	if err := s.fill(req, p); err != nil {
		return Result{Error: err.Error()}
	}

	document, err := EncodeRequest(s.root(), req)
	if err != nil {
		return Result{Error: err.Error()}
	}

	entry := &models.TransactionLog{
		TranCode:        tranCode,
		TranType:        s.tranType(),
		RequestDocument: document,
		SequenceNo:      req.SequenceNo,
		MerchantID:      e.cfg.MerchantID,
		DeviceID:        e.cfg.DeviceID,
		InvoiceNo:       req.InvoiceNo,
		OrderID:         p.OrderID,
	}
	if p.Amount != nil {
		amount := p.Amount.Purchase
		entry.AmountMinorUnits = &amount
	}

	// The pending row guarantees the attempt is recorded even if the
	// call never returns.
	if err := e.store.CreatePending(entry); err != nil {
		return Result{Error: fmt.Sprintf("create transaction log: %v", err)}
	}

	body, err := e.sender.Send(ctx, document)
	if err != nil {
		return e.fail(entry, err)
	}

	responseDoc := string(body)
	entry.ResponseDocument = &responseDoc

	resp, err := DecodeResponse(body)
	if err != nil {
		// The raw body stays on the row so an undecodable reply can
		// still be inspected later.
		return e.fail(entry, err)
	}
	entry.TextResponse = optional(resp.TextResponse)
	entry.DSIXReturnCode = optional(resp.DSIXReturnCode)
	entry.BatchNo = optional(resp.BatchNo)
	entry.AuthCode = optional(resp.AuthCode)
	entry.RefNo = optional(resp.RefNo)
	entry.CardType = optional(resp.CardType)
	entry.CardLast4 = optional(CardLast4(resp.AcctNo))
	// A partial approval comes back with its own purchase amount; the
	// terminal's figure is authoritative for the audit row.
	if resp.Purchase != "" {
		if approved, perr := ParseMinor(resp.Purchase); perr == nil {
			entry.AmountMinorUnits = &approved
		}
	}

	success := ClassifySuccess(resp.CmdStatus)
	if success {
		entry.Status = models.TranSuccess
	} else {
		entry.Status = models.TranError
	}
	if err := e.store.Finalize(entry); err != nil {
		return Result{
			Error:         fmt.Sprintf("finalize transaction log: %v", err),
			TransactionID: entry.ID,
			Data:          resp,
		}
	}

	result := Result{
		Success:       success,
		Message:       resp.TextResponse,
		TransactionID: entry.ID,
		Data:          resp,
	}
	if !success {
		result.Error = resp.TextResponse
		if result.Error == "" {
			result.Error = fmt.Sprintf("terminal returned status %q", resp.CmdStatus)
		}
	}
	return result
}

// fail finalizes the pending row as an error so the audit trail never
// keeps a permanently pending attempt the caller gave up on.
func (e *Engine) fail(entry *models.TransactionLog, cause error) Result {
	msg := cause.Error()
	entry.Status = models.TranError
	entry.TextResponse = &msg
	if err := e.store.Finalize(entry); err != nil {
		msg = fmt.Sprintf("%s (finalize transaction log: %v)", msg, err)
	}
	return Result{Error: msg, TransactionID: entry.ID}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

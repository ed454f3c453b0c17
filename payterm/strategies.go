package payterm

import "errors"

// Transaction codes the engine understands.
const (
	CodeEMVSale                = "EMVSale"
	CodeEMVReturn              = "EMVReturn"
	CodeVoidSaleByRecordNo     = "VoidSaleByRecordNo"
	CodeVoidReturnByRecordNo   = "VoidReturnByRecordNo"
	CodeEMVPreAuth             = "EMVPreAuth"
	CodePreAuthCaptureByRecord = "PreAuthCaptureByRecordNo"
	CodeReturnByRecordNo       = "ReturnByRecordNo"
	CodePreAuthByRecordNo      = "PreAuthByRecordNo"
	CodeBatchSummary           = "BatchSummary"
	CodeBatchClose             = "BatchClose"
	CodeEMVParamDownload       = "EMVParamDownload"
)

var (
	ErrPurchaseRequired   = errors.New("amount.purchase is required and must be greater than zero")
	ErrRecordNoRequired   = errors.New("record number is required")
	ErrCaptureRefRequired = errors.New("ref number, auth code, acq ref data and process data are required for capture")
	ErrBatchInfoRequired  = errors.New("batch item count, net batch total and batch number are required")
)

func requirePurchase(p Params) error {
	if p.Amount == nil || p.Amount.Purchase <= 0 {
		return ErrPurchaseRequired
	}
	return p.Amount.Validate()
}

// EMVSale: charge the presented card.
type saleStrategy struct{}

func (saleStrategy) codes() []string  { return []string{CodeEMVSale} }
func (saleStrategy) root() RootKind   { return RootTransaction }
func (saleStrategy) tranType() string { return "Credit" }

func (saleStrategy) validate(_ string, p Params) error { return requirePurchase(p) }

func (saleStrategy) fill(req *Request, p Params) error {
	req.Amount = NewAmountGroup(*p.Amount)
	req.PartialAuth = "Allow"
	return nil
}

// EMVReturn: credit the presented card.
type returnStrategy struct{}

func (returnStrategy) codes() []string  { return []string{CodeEMVReturn} }
func (returnStrategy) root() RootKind   { return RootTransaction }
func (returnStrategy) tranType() string { return "Credit" }

func (returnStrategy) validate(_ string, p Params) error { return requirePurchase(p) }

func (returnStrategy) fill(req *Request, p Params) error {
	req.Amount = NewAmountGroup(*p.Amount)
	return nil
}

// VoidSaleByRecordNo / VoidReturnByRecordNo: undo a prior transaction
// through the terminal-issued record handle, no card present.
type voidByRecordStrategy struct{}

func (voidByRecordStrategy) codes() []string {
	return []string{CodeVoidSaleByRecordNo, CodeVoidReturnByRecordNo}
}
func (voidByRecordStrategy) root() RootKind   { return RootTransaction }
func (voidByRecordStrategy) tranType() string { return "Credit" }

func (voidByRecordStrategy) validate(_ string, p Params) error {
	if err := requirePurchase(p); err != nil {
		return err
	}
	if p.RecordNo == "" {
		return ErrRecordNoRequired
	}
	return nil
}

func (voidByRecordStrategy) fill(req *Request, p Params) error {
	req.Amount = NewAmountGroup(*p.Amount)
	req.RecordNo = p.RecordNo
	req.RefNo = p.RefNo
	req.AuthCode = p.AuthCode
	req.AcqRefData = p.AcqRefData
	req.ProcessData = p.ProcessData
	return nil
}

// EMVPreAuth: hold funds without capturing. Authorize defaults to the
// purchase amount when not set explicitly.
type preAuthStrategy struct{}

func (preAuthStrategy) codes() []string  { return []string{CodeEMVPreAuth} }
func (preAuthStrategy) root() RootKind   { return RootTransaction }
func (preAuthStrategy) tranType() string { return "Credit" }

func (preAuthStrategy) validate(_ string, p Params) error { return requirePurchase(p) }

func (preAuthStrategy) fill(req *Request, p Params) error {
	amount := *p.Amount
	if amount.Authorize == 0 {
		amount.Authorize = amount.Purchase
	}
	req.Amount = NewAmountGroup(amount)
	return nil
}

// PreAuthCaptureByRecordNo: finalize a held authorization, folding
// gratuity into the authorized total.
type preAuthCaptureStrategy struct{}

func (preAuthCaptureStrategy) codes() []string  { return []string{CodePreAuthCaptureByRecord} }
func (preAuthCaptureStrategy) root() RootKind   { return RootTransaction }
func (preAuthCaptureStrategy) tranType() string { return "Credit" }

func (preAuthCaptureStrategy) validate(_ string, p Params) error {
	if err := requirePurchase(p); err != nil {
		return err
	}
	if p.RecordNo == "" {
		return ErrRecordNoRequired
	}
	if p.RefNo == "" || p.AuthCode == "" || p.AcqRefData == "" || p.ProcessData == "" {
		return ErrCaptureRefRequired
	}
	return nil
}

func (preAuthCaptureStrategy) fill(req *Request, p Params) error {
	amount := *p.Amount
	amount.Authorize = amount.Purchase + amount.Gratuity
	req.Amount = NewAmountGroup(amount)
	req.RecordNo = p.RecordNo
	req.AcqRefData = p.AcqRefData
	req.ProcessData = p.ProcessData
	// References to the held authorization travel in the TranInfo group.
	req.TranInfo = &TranInfo{
		InvoiceNo: req.InvoiceNo,
		RefNo:     p.RefNo,
		AuthCode:  p.AuthCode,
	}
	return nil
}

// ReturnByRecordNo / PreAuthByRecordNo: run against a stored record
// handle instead of a presented card.
type recordNoStrategy struct{}

func (recordNoStrategy) codes() []string {
	return []string{CodeReturnByRecordNo, CodePreAuthByRecordNo}
}
func (recordNoStrategy) root() RootKind   { return RootTransaction }
func (recordNoStrategy) tranType() string { return "Credit" }

func (recordNoStrategy) validate(_ string, p Params) error {
	if err := requirePurchase(p); err != nil {
		return err
	}
	if p.RecordNo == "" {
		return ErrRecordNoRequired
	}
	return nil
}

func (recordNoStrategy) fill(req *Request, p Params) error {
	req.Amount = NewAmountGroup(*p.Amount)
	req.RecordNo = p.RecordNo
	req.Frequency = "OneTime"
	return nil
}

// BatchSummary / BatchClose: device administration. Close requires the
// batch identity and totals reported by the preceding summary.
type batchStrategy struct{}

func (batchStrategy) codes() []string  { return []string{CodeBatchSummary, CodeBatchClose} }
func (batchStrategy) root() RootKind   { return RootAdmin }
func (batchStrategy) tranType() string { return "Administrative" }

func (batchStrategy) validate(tranCode string, p Params) error {
	if tranCode != CodeBatchClose {
		return nil
	}
	if p.BatchItemCount == "" || p.NetBatchTotal == "" || p.BatchNo == "" {
		return ErrBatchInfoRequired
	}
	return nil
}

func (batchStrategy) fill(req *Request, p Params) error {
	req.BatchItemCount = p.BatchItemCount
	req.NetBatchTotal = p.NetBatchTotal
	req.BatchNo = p.BatchNo
	return nil
}

// EMVParamDownload: refresh terminal parameters. No inputs.
type paramDownloadStrategy struct{}

func (paramDownloadStrategy) codes() []string  { return []string{CodeEMVParamDownload} }
func (paramDownloadStrategy) root() RootKind   { return RootAdmin }
func (paramDownloadStrategy) tranType() string { return "Administrative" }

func (paramDownloadStrategy) validate(string, Params) error { return nil }

func (paramDownloadStrategy) fill(*Request, Params) error { return nil }

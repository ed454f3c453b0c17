package payterm

import (
	"encoding/xml"
	"fmt"
)

// RootKind selects the element wrapped by TStream: terminal money
// movement goes under Transaction, device administration under Admin.
type RootKind string

const (
	RootTransaction RootKind = "Transaction"
	RootAdmin       RootKind = "Admin"
)

// Request is the flat field set serialized into the wire document.
// Field order in the struct is the order on the wire.
type Request struct {
	MerchantID     string       `xml:"MerchantID"`
	TerminalID     string       `xml:"TerminalID,omitempty"`
	SecureDevice   string       `xml:"SecureDevice,omitempty"`
	POSPackageID   string       `xml:"POSPackageID,omitempty"`
	TranType       string       `xml:"TranType,omitempty"`
	TranCode       string       `xml:"TranCode"`
	SequenceNo     string       `xml:"SequenceNo,omitempty"`
	InvoiceNo      string       `xml:"InvoiceNo,omitempty"`
	RefNo          string       `xml:"RefNo,omitempty"`
	RecordNo       string       `xml:"RecordNo,omitempty"`
	AuthCode       string       `xml:"AuthCode,omitempty"`
	AcqRefData     string       `xml:"AcqRefData,omitempty"`
	ProcessData    string       `xml:"ProcessData,omitempty"`
	Frequency      string       `xml:"Frequency,omitempty"`
	PartialAuth    string       `xml:"PartialAuth,omitempty"`
	BatchItemCount string       `xml:"BatchItemCount,omitempty"`
	NetBatchTotal  string       `xml:"NetBatchTotal,omitempty"`
	BatchNo        string       `xml:"BatchNo,omitempty"`
	Amount         *AmountGroup `xml:"Amount,omitempty"`
	TranInfo       *TranInfo    `xml:"TranInfo,omitempty"`
}

// AmountGroup is the nested money block; every present field is a
// two-decimal fixed-point string.
type AmountGroup struct {
	Purchase  string `xml:"Purchase,omitempty"`
	Tax       string `xml:"Tax,omitempty"`
	Gratuity  string `xml:"Gratuity,omitempty"`
	Authorize string `xml:"Authorize,omitempty"`
}

// TranInfo carries references to a prior transaction.
type TranInfo struct {
	InvoiceNo string `xml:"InvoiceNo,omitempty"`
	RefNo     string `xml:"RefNo,omitempty"`
	AuthCode  string `xml:"AuthCode,omitempty"`
}

// NewAmountGroup formats a validated Amount for the wire. Zero
// optional fields are omitted; Purchase is always written.
func NewAmountGroup(a Amount) *AmountGroup {
	g := &AmountGroup{Purchase: FormatMinor(a.Purchase)}
	if a.Tax > 0 {
		g.Tax = FormatMinor(a.Tax)
	}
	if a.Gratuity > 0 {
		g.Gratuity = FormatMinor(a.Gratuity)
	}
	if a.Authorize > 0 {
		g.Authorize = FormatMinor(a.Authorize)
	}
	return g
}

type tStream struct {
	XMLName     xml.Name `xml:"TStream"`
	Transaction *Request `xml:"Transaction,omitempty"`
	Admin       *Request `xml:"Admin,omitempty"`
}

// EncodeRequest serializes a request under the given root kind.
func EncodeRequest(kind RootKind, req *Request) (string, error) {
	doc := tStream{}
	switch kind {
	case RootAdmin:
		doc.Admin = req
	case RootTransaction:
		doc.Transaction = req
	default:
		return "", fmt.Errorf("unknown root kind %q", kind)
	}
	out, err := xml.MarshalIndent(doc, "", "\t")
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return string(out), nil
}

// NormalizedResponse is the decoded view of a terminal response.
// Missing fields stay empty strings.
type NormalizedResponse struct {
	CmdStatus      string `json:"cmd_status"`
	TextResponse   string `json:"text_response"`
	DSIXReturnCode string `json:"dsix_return_code"`
	SequenceNo     string `json:"sequence_no"`
	BatchNo        string `json:"batch_no"`
	AuthCode       string `json:"auth_code"`
	RefNo          string `json:"ref_no"`
	InvoiceNo      string `json:"invoice_no"`
	RecordNo       string `json:"record_no"`
	AcqRefData     string `json:"acq_ref_data"`
	ProcessData    string `json:"process_data"`
	CardType       string `json:"card_type"`
	AcctNo         string `json:"acct_no"`
	Authorize      string `json:"authorize"`
	Purchase       string `json:"purchase"`
}

// Responses arrive either with CmdResponse/TranResponse groups or with
// the same fields flat under RStream; both shapes decode the same way.
type rStream struct {
	XMLName      xml.Name       `xml:"RStream"`
	CmdResponse  *responseGroup `xml:"CmdResponse"`
	TranResponse *responseGroup `xml:"TranResponse"`

	CmdStatus      string  `xml:"CmdStatus"`
	TextResponse   string  `xml:"TextResponse"`
	DSIXReturnCode string  `xml:"DSIXReturnCode"`
	SequenceNo     string  `xml:"SequenceNo"`
	BatchNo        string  `xml:"BatchNo"`
	AuthCode       string  `xml:"AuthCode"`
	RefNo          string  `xml:"RefNo"`
	InvoiceNo      string  `xml:"InvoiceNo"`
	RecordNo       string  `xml:"RecordNo"`
	AcqRefData     string  `xml:"AcqRefData"`
	ProcessData    string  `xml:"ProcessData"`
	CardType       string  `xml:"CardType"`
	AcctNo         string  `xml:"AcctNo"`
	Amount         *struct {
		Purchase  string `xml:"Purchase"`
		Authorize string `xml:"Authorize"`
	} `xml:"Amount"`
}

type responseGroup struct {
	CmdStatus      string `xml:"CmdStatus"`
	TextResponse   string `xml:"TextResponse"`
	DSIXReturnCode string `xml:"DSIXReturnCode"`
	SequenceNo     string `xml:"SequenceNo"`
	BatchNo        string `xml:"BatchNo"`
	AuthCode       string `xml:"AuthCode"`
	RefNo          string `xml:"RefNo"`
	InvoiceNo      string `xml:"InvoiceNo"`
	RecordNo       string `xml:"RecordNo"`
	AcqRefData     string `xml:"AcqRefData"`
	ProcessData    string `xml:"ProcessData"`
	CardType       string `xml:"CardType"`
	AcctNo         string `xml:"AcctNo"`
	Purchase       string `xml:"Purchase"`
	Authorize      string `xml:"Authorize"`
	Amount         *struct {
		Purchase  string `xml:"Purchase"`
		Authorize string `xml:"Authorize"`
	} `xml:"Amount"`
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecodeResponse parses a terminal response document. Only an
// unparsable document is an error; absent fields decode to "".
func DecodeResponse(doc []byte) (*NormalizedResponse, error) {
	var raw rStream
	if err := xml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	cmd := raw.CmdResponse
	if cmd == nil {
		cmd = &responseGroup{}
	}
	tran := raw.TranResponse
	if tran == nil {
		tran = &responseGroup{}
	}

	resp := &NormalizedResponse{
		CmdStatus:      pick(cmd.CmdStatus, raw.CmdStatus),
		TextResponse:   pick(cmd.TextResponse, raw.TextResponse),
		DSIXReturnCode: pick(cmd.DSIXReturnCode, raw.DSIXReturnCode),
		SequenceNo:     pick(cmd.SequenceNo, tran.SequenceNo, raw.SequenceNo),
		BatchNo:        pick(tran.BatchNo, cmd.BatchNo, raw.BatchNo),
		AuthCode:       pick(tran.AuthCode, raw.AuthCode),
		RefNo:          pick(tran.RefNo, raw.RefNo),
		InvoiceNo:      pick(tran.InvoiceNo, raw.InvoiceNo),
		RecordNo:       pick(tran.RecordNo, raw.RecordNo),
		AcqRefData:     pick(tran.AcqRefData, raw.AcqRefData),
		ProcessData:    pick(tran.ProcessData, raw.ProcessData),
		CardType:       pick(tran.CardType, raw.CardType),
		AcctNo:         pick(tran.AcctNo, raw.AcctNo),
	}
	if tran.Amount != nil {
		resp.Purchase = tran.Amount.Purchase
		resp.Authorize = tran.Amount.Authorize
	}
	if raw.Amount != nil {
		resp.Purchase = pick(resp.Purchase, raw.Amount.Purchase)
		resp.Authorize = pick(resp.Authorize, raw.Amount.Authorize)
	}
	resp.Purchase = pick(resp.Purchase, tran.Purchase)
	resp.Authorize = pick(resp.Authorize, tran.Authorize)
	return resp, nil
}

// ClassifySuccess is the single authority on whether a terminal
// response means the transaction went through.
func ClassifySuccess(cmdStatus string) bool {
	return cmdStatus == "Success" || cmdStatus == "Approved"
}

// CardLast4 extracts the trailing digits of a masked account number.
func CardLast4(acctNo string) string {
	if len(acctNo) <= 4 {
		return acctNo
	}
	return acctNo[len(acctNo)-4:]
}

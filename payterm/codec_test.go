package payterm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequestTransaction(t *testing.T) {
	doc, err := EncodeRequest(RootTransaction, &Request{
		MerchantID:   "700000000001",
		TerminalID:   "001",
		SecureDevice: "CloudEMV2",
		TranType:     "Credit",
		TranCode:     CodeEMVSale,
		SequenceNo:   "0010010010",
		InvoiceNo:    "INV-1",
		Amount:       NewAmountGroup(Amount{Purchase: 2550, Tax: 200, Gratuity: 300}),
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "<TStream>")
	assert.Contains(t, doc, "<Transaction>")
	assert.NotContains(t, doc, "<Admin>")
	assert.Contains(t, doc, "<TranCode>EMVSale</TranCode>")
	assert.Contains(t, doc, "<Purchase>25.50</Purchase>")
	assert.Contains(t, doc, "<Tax>2.00</Tax>")
	assert.Contains(t, doc, "<Gratuity>3.00</Gratuity>")
	assert.NotContains(t, doc, "<Authorize>")

	// Field order on the wire follows the request layout.
	assert.Less(t, strings.Index(doc, "<MerchantID>"), strings.Index(doc, "<TranCode>"))
	assert.Less(t, strings.Index(doc, "<TranCode>"), strings.Index(doc, "<SequenceNo>"))
	assert.Less(t, strings.Index(doc, "<SequenceNo>"), strings.Index(doc, "<Amount>"))
}

func TestEncodeRequestAdmin(t *testing.T) {
	doc, err := EncodeRequest(RootAdmin, &Request{
		MerchantID:     "700000000001",
		TranCode:       CodeBatchClose,
		BatchItemCount: "14",
		NetBatchTotal:  "512.40",
		BatchNo:        "23",
	})
	require.NoError(t, err)

	assert.Contains(t, doc, "<Admin>")
	assert.NotContains(t, doc, "<Transaction>")
	assert.Contains(t, doc, "<BatchItemCount>14</BatchItemCount>")
	assert.Contains(t, doc, "<NetBatchTotal>512.40</NetBatchTotal>")
	assert.Contains(t, doc, "<BatchNo>23</BatchNo>")
}

const groupedResponse = `<RStream>
	<CmdResponse>
		<CmdStatus>Approved</CmdStatus>
		<TextResponse>AP*</TextResponse>
		<DSIXReturnCode>000000</DSIXReturnCode>
		<SequenceNo>0010010011</SequenceNo>
	</CmdResponse>
	<TranResponse>
		<AuthCode>051234</AuthCode>
		<RefNo>0001</RefNo>
		<InvoiceNo>INV-1</InvoiceNo>
		<CardType>VISA</CardType>
		<AcctNo>************1234</AcctNo>
		<RecordNo>rec-9</RecordNo>
		<Amount>
			<Purchase>25.50</Purchase>
			<Authorize>25.50</Authorize>
		</Amount>
	</TranResponse>
</RStream>`

func TestDecodeResponseGrouped(t *testing.T) {
	resp, err := DecodeResponse([]byte(groupedResponse))
	require.NoError(t, err)

	assert.Equal(t, "Approved", resp.CmdStatus)
	assert.Equal(t, "AP*", resp.TextResponse)
	assert.Equal(t, "000000", resp.DSIXReturnCode)
	assert.Equal(t, "0010010011", resp.SequenceNo)
	assert.Equal(t, "051234", resp.AuthCode)
	assert.Equal(t, "0001", resp.RefNo)
	assert.Equal(t, "INV-1", resp.InvoiceNo)
	assert.Equal(t, "VISA", resp.CardType)
	assert.Equal(t, "************1234", resp.AcctNo)
	assert.Equal(t, "rec-9", resp.RecordNo)
	assert.Equal(t, "25.50", resp.Purchase)
	assert.Equal(t, "25.50", resp.Authorize)
}

func TestDecodeResponseFlat(t *testing.T) {
	resp, err := DecodeResponse([]byte(`<RStream>
		<CmdStatus>Declined</CmdStatus>
		<TextResponse>DECLINE</TextResponse>
		<SequenceNo>0010010012</SequenceNo>
	</RStream>`))
	require.NoError(t, err)

	assert.Equal(t, "Declined", resp.CmdStatus)
	assert.Equal(t, "DECLINE", resp.TextResponse)
	assert.Equal(t, "0010010012", resp.SequenceNo)
}

func TestDecodeResponseMissingFields(t *testing.T) {
	resp, err := DecodeResponse([]byte(`<RStream></RStream>`))
	require.NoError(t, err)

	assert.Equal(t, "", resp.CmdStatus)
	assert.Equal(t, "", resp.TextResponse)
	assert.Equal(t, "", resp.SequenceNo)
	assert.Equal(t, "", resp.AcctNo)
}

func TestDecodeResponseMalformed(t *testing.T) {
	_, err := DecodeResponse([]byte(`<RStream><CmdStatus>`))
	assert.Error(t, err)
}

func TestClassifySuccess(t *testing.T) {
	assert.True(t, ClassifySuccess("Success"))
	assert.True(t, ClassifySuccess("Approved"))

	assert.False(t, ClassifySuccess("Declined"))
	assert.False(t, ClassifySuccess("Error"))
	assert.False(t, ClassifySuccess("approved"))
	assert.False(t, ClassifySuccess(""))
}

func TestCardLast4(t *testing.T) {
	assert.Equal(t, "1234", CardLast4("************1234"))
	assert.Equal(t, "1234", CardLast4("1234"))
	assert.Equal(t, "", CardLast4(""))
}

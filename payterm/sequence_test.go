package payterm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"pos-api/models"
)

func logWithResponse(deviceID, doc string) *models.TransactionLog {
	return &models.TransactionLog{DeviceID: deviceID, ResponseDocument: &doc}
}

func TestNextSequenceFromLatestLog(t *testing.T) {
	store := &memLogStore{rows: []*models.TransactionLog{
		logWithResponse("001", `<RStream><CmdResponse><SequenceNo>0010010011</SequenceNo></CmdResponse></RStream>`),
	}}
	src := NewLogSequenceSource(store, "001", "0010010010")

	assert.Equal(t, "0010010011", src.NextSequence())
}

func TestNextSequenceEmptyHistory(t *testing.T) {
	src := NewLogSequenceSource(&memLogStore{}, "001", "0010010010")
	assert.Equal(t, "0010010010", src.NextSequence())
}

func TestNextSequenceStoreFailure(t *testing.T) {
	store := &memLogStore{latestErr: errors.New("storage unavailable")}
	src := NewLogSequenceSource(store, "001", "0010010010")

	// Lookup failure never blocks issuance.
	assert.Equal(t, "0010010010", src.NextSequence())
}

func TestNextSequenceLatestHasNoResponse(t *testing.T) {
	store := &memLogStore{rows: []*models.TransactionLog{
		{DeviceID: "001"},
	}}
	src := NewLogSequenceSource(store, "001", "0010010010")

	assert.Equal(t, "0010010010", src.NextSequence())
}

func TestNextSequenceMalformedResponse(t *testing.T) {
	store := &memLogStore{rows: []*models.TransactionLog{
		logWithResponse("001", "<RStream><Cmd"),
	}}
	src := NewLogSequenceSource(store, "001", "0010010010")

	assert.Equal(t, "0010010010", src.NextSequence())
}

func TestNextSequenceEmptySequenceInResponse(t *testing.T) {
	store := &memLogStore{rows: []*models.TransactionLog{
		logWithResponse("001", `<RStream><CmdResponse><CmdStatus>Approved</CmdStatus></CmdResponse></RStream>`),
	}}
	src := NewLogSequenceSource(store, "001", "0010010010")

	assert.Equal(t, "0010010010", src.NextSequence())
}

func TestNextSequenceOtherDeviceIgnored(t *testing.T) {
	store := &memLogStore{rows: []*models.TransactionLog{
		logWithResponse("002", `<RStream><CmdResponse><SequenceNo>0020020022</SequenceNo></CmdResponse></RStream>`),
	}}
	src := NewLogSequenceSource(store, "001", "0010010010")

	assert.Equal(t, "0010010010", src.NextSequence())
}

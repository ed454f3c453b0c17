package config

import "pos-api/utils"

// TerminalConfig carries everything the card-terminal engine needs to
// address one physical EMV device.
type TerminalConfig struct {
	APIURL          string
	AuthToken       string
	MerchantID      string
	DeviceID        string
	SecureDevice    string
	POSPackageID    string
	TestMode        bool
	DefaultSequence string
}

func LoadTerminalConfig() TerminalConfig {
	return TerminalConfig{
		APIURL:          utils.GetEnvString("TERMINAL_API_URL", "http://localhost:8900"),
		AuthToken:       utils.GetEnvString("TERMINAL_AUTH_TOKEN", ""),
		MerchantID:      utils.GetEnvString("TERMINAL_MERCHANT_ID", ""),
		DeviceID:        utils.GetEnvString("TERMINAL_DEVICE_ID", "001"),
		SecureDevice:    utils.GetEnvString("TERMINAL_SECURE_DEVICE", "CloudEMV2"),
		POSPackageID:    utils.GetEnvString("TERMINAL_POS_PACKAGE_ID", "pos-api:1.0"),
		TestMode:        utils.GetEnvBool("TERMINAL_TEST_MODE", true),
		DefaultSequence: utils.GetEnvString("TERMINAL_DEFAULT_SEQUENCE", "0010010010"),
	}
}

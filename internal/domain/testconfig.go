package domain

// TestConfig is the single row of the config table. It carries parameters for
// the external test drivers; the services never read it at runtime.
type TestConfig struct {
	APIGatewayURL string `json:"api_gateway_url"`
	BrowserType   string `json:"browser_type"`
	UserName      string `json:"user_name"`
}

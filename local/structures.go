package local

// Response is sent whenever a request fails.
type Response struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message"`
}

type CarrierInfo struct {
	Dimensions    string `json:"dimensions"`
	Format        string `json:"format"`
	Channels      int    `json:"channels"`
	CapacityBytes uint64 `json:"capacity_bytes"`
	CapacityHuman string `json:"capacity_human"`
}

type SecretInfo struct {
	SizeBytes  uint64 `json:"size_bytes"`
	SizeHuman  string `json:"size_human"`
	Compressed bool   `json:"compressed"`
}

type Analysis struct {
	BytesAvailable uint64   `json:"bytes_available"`
	UsagePercent   *float64 `json:"usage_percent"` // null when the carrier has no room at all
	ShortfallBytes uint64   `json:"shortfall_bytes"`
	Recommendation string   `json:"recommendation"`
}

type CapacityResponse struct {
	CanEncode   bool        `json:"can_encode"`
	CarrierInfo CarrierInfo `json:"carrier_info"`
	SecretInfo  SecretInfo  `json:"secret_info"`
	Analysis    Analysis    `json:"analysis"`
}

type ImageDimensions struct {
	Width    uint32 `json:"width"`
	Height   uint32 `json:"height"`
	Channels int    `json:"channels"`
}

type CheckResponse struct {
	HasHiddenData    bool            `json:"has_hidden_data"`
	HiddenDataSize   uint64          `json:"hidden_data_size"`
	ImageDimensions  ImageDimensions `json:"image_dimensions"`
	MaxCapacityBytes uint64          `json:"max_capacity_bytes"`
}

type IndexResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

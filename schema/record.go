package schema

import (
	"github.com/tidwall/gjson"
)

const (
	NamingSuffix = ".iota"
	NamesLookup  = "iotax_iotaNamesLookup"
)

// ResolutionRecord is the registry's answer for a name. Data is the
// free-form metadata; non-string values are kept in their JSON text form.
type ResolutionRecord struct {
	TargetAddress         string            `json:"targetAddress,omitempty"`
	ExpirationTimestampMs string            `json:"expirationTimestampMs,omitempty"`
	NftId                 string            `json:"nftId,omitempty"`
	Data                  map[string]string `json:"data,omitempty"`
}

func (r *ResolutionRecord) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return ErrMalformedRespond
	}
	res := gjson.ParseBytes(b)
	*r = ResolutionRecord{}
	if !res.IsObject() {
		return nil
	}
	r.TargetAddress = res.Get("targetAddress").String()
	r.ExpirationTimestampMs = res.Get("expirationTimestampMs").String()
	r.NftId = res.Get("nftId").String()

	data := res.Get("data")
	if data.IsObject() {
		r.Data = make(map[string]string)
		data.ForEach(func(key, value gjson.Result) bool {
			r.Data[key.String()] = value.String()
			return true
		})
	}
	return nil
}

// ResolutionPayload is what gets recorded per tab and handed to UI surfaces.
// An error payload carries no record.
type ResolutionPayload struct {
	Name       string            `json:"name"`
	Record     *ResolutionRecord `json:"record"`
	WebsiteUrl string            `json:"websiteUrl,omitempty"`
	ResolvedAt string            `json:"resolvedAt,omitempty"`
	Error      string            `json:"error,omitempty"`
}

package spec

// CopyRecords returns a structural copy of records: new slice, new
// backing arrays and maps for every reference field. Work handed to a
// background worker crosses goroutines as a copy, so the interactive
// side's view cannot be corrupted even if a handler misbehaves.
func CopyRecords(records []EndpointRecord) []EndpointRecord {
	if records == nil {
		return nil
	}
	out := make([]EndpointRecord, len(records))
	for i, r := range records {
		c := r
		if r.Tags != nil {
			c.Tags = append([]string(nil), r.Tags...)
		}
		if r.Parameters != nil {
			c.Parameters = append([]Parameter(nil), r.Parameters...)
		}
		if r.Security != nil {
			c.Security = append([]string(nil), r.Security...)
		}
		if r.Responses != nil {
			c.Responses = make(map[string]string, len(r.Responses))
			for k, v := range r.Responses {
				c.Responses[k] = v
			}
		}
		out[i] = c
	}
	return out
}

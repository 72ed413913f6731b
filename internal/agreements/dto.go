package agreements

// agreementResponse is the wire shape for a stored agreement. Service lines
// are exposed under "services", matching what the review UI consumes; the
// record's own services_list key is shadowed out so they appear once.
type agreementResponse struct {
	AgreementRecord
	ServicesList []ServiceLine `json:"-"`
	Services     []ServiceLine `json:"services"`
}

func toResponse(rec AgreementRecord) agreementResponse {
	services := rec.ServicesList
	if services == nil {
		services = []ServiceLine{}
	}
	return agreementResponse{AgreementRecord: rec, Services: services}
}

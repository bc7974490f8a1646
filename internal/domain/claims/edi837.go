package claims

import (
	"strconv"
	"time"

	"github.com/saiharsha61/RCM-Billing-sub001/internal/platform/x12"
)

// EncoderConfig carries the trading-partner identity for the interchange
// envelope. Clock is injectable so tests can pin the ISA/GS/BHT timestamps.
type EncoderConfig struct {
	SenderID       string
	SenderName     string
	ReceiverID     string
	ReceiverName   string
	UsageIndicator string // "P" production, "T" test
	Clock          func() time.Time
}

// Encoder serializes a claim into an ANSI X12 837P (005010X222A1)
// transaction. Encoding is total: it never rejects a claim, it simply
// renders whatever is on it. Submission paths gate on the validator first.
type Encoder struct {
	cfg EncoderConfig
}

func NewEncoder(cfg EncoderConfig) *Encoder {
	if cfg.UsageIndicator == "" {
		cfg.UsageIndicator = "P"
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Encoder{cfg: cfg}
}

// Encode renders the claim as newline-delimited X12 segments. Segment order
// is fixed by the implementation guide; conditional segments (addresses,
// dependent patient loop, NDC) are emitted only when their data is present.
func (e *Encoder) Encode(c *Claim) string {
	now := e.cfg.Clock()
	var d x12.Document

	e.writeEnvelopeOpen(&d, c, now)
	e.writeBillingProvider(&d, c)
	e.writeSubscriber(&d, c)
	e.writeClaimLevel(&d, c, now)
	e.writeServiceLines(&d, c, now)
	e.writeEnvelopeClose(&d)

	return d.String()
}

func (e *Encoder) writeEnvelopeOpen(d *x12.Document, c *Claim, now time.Time) {
	d.Add("ISA",
		"00", x12.PadRight("", 10),
		"00", x12.PadRight("", 10),
		"ZZ", x12.PadRight(e.cfg.SenderID, 15),
		"ZZ", x12.PadRight(e.cfg.ReceiverID, 15),
		x12.FormatDateShort(now), x12.FormatTime(now),
		"^", "00501", "000000001", "0", e.cfg.UsageIndicator, x12.SubElementSeparator)
	d.Add("GS", "HC", e.cfg.SenderID, e.cfg.ReceiverID,
		x12.FormatDate(now), x12.FormatTime(now), "1", "X", "005010X222A1")
	d.Add("ST", "837", "0001", "005010X222A1")
	d.Add("BHT", "0019", "00", c.ClaimNumber, x12.FormatDate(now), x12.FormatTime(now), "CH")
	d.Add("NM1", "41", "2", e.cfg.SenderName, "", "", "", "", "46", e.cfg.SenderID)
	d.Add("NM1", "40", "2", e.cfg.ReceiverName, "", "", "", "", "46", e.cfg.ReceiverID)
}

func (e *Encoder) writeBillingProvider(d *x12.Document, c *Claim) {
	d.Add("HL", "1", "", "20", "1")
	d.Add("NM1", "85", "2", c.BillingProvider.Name, "", "", "", "", "XX", c.BillingProvider.NPI)
	writeAddress(d, c.BillingProvider.Address)
	d.Add("REF", "EI", c.BillingProvider.TaxID)
}

func (e *Encoder) writeSubscriber(d *x12.Document, c *Claim) {
	d.Add("HL", "2", "1", "22", "1")

	group := ""
	if c.Subscriber.GroupNumber != nil {
		group = *c.Subscriber.GroupNumber
	}
	d.Add("SBR", "P", relationshipCode(c.Subscriber.RelationshipToInsured), group, "", "", "", "", "", claimFilingCode(c.PayerType))
	d.Add("NM1", "IL", "1", c.Subscriber.LastName, c.Subscriber.FirstName, "", "", "", "MI", c.Subscriber.MemberID)
	d.Add("NM1", "PR", "2", c.Subscriber.PayerName, "", "", "", "", "PI", c.Subscriber.PayerID)

	// Dependent loop only when the patient is not the subscriber.
	if c.Subscriber.RelationshipToInsured != "Self" {
		d.Add("HL", "3", "2", "23", "0")
		d.Add("PAT", patientRelationshipCode(c.Subscriber.RelationshipToInsured))
		d.Add("NM1", "QC", "1", c.Patient.LastName, c.Patient.FirstName)
	}
}

func (e *Encoder) writeClaimLevel(d *x12.Document, c *Claim, now time.Time) {
	pos := "11"
	if len(c.ServiceLines) > 0 && c.ServiceLines[0].PlaceOfService != "" {
		pos = c.ServiceLines[0].PlaceOfService
	}
	d.Add("CLM", c.Patient.AccountNumber, x12.FormatAmount(c.TotalCharge), "", "",
		x12.Composite(pos, "B", "1"), "Y", "A", "Y", "Y")

	serviceDate := now
	if len(c.ServiceLines) > 0 && c.ServiceLines[0].FromDate != nil {
		serviceDate = *c.ServiceLines[0].FromDate
	}
	d.Add("DTP", "472", "D8", x12.FormatDate(serviceDate))

	if len(c.Diagnoses) > 0 {
		elements := []string{"HI"}
		for i, diag := range c.Diagnoses {
			qualifier := "ABF"
			if i == 0 {
				qualifier = "ABK"
			}
			elements = append(elements, x12.Composite(qualifier, x12.StripCode(diag.Code)))
		}
		d.Add(elements...)
	}
}

func (e *Encoder) writeServiceLines(d *x12.Document, c *Claim, now time.Time) {
	for _, line := range c.ServiceLines {
		d.Add("LX", strconv.Itoa(line.LineNumber))

		proc := append([]string{"HC", line.CPTCode}, line.Modifiers...)
		pointers := make([]string, 0, len(line.DiagnosisPointers))
		for _, p := range line.DiagnosisPointers {
			pointers = append(pointers, PointerLetter(p))
		}
		d.Add("SV1", x12.Composite(proc...), x12.FormatAmount(line.Charge), "UN",
			strconv.Itoa(line.Units), "", "", x12.Composite(pointers...))

		from := now
		if line.FromDate != nil {
			from = *line.FromDate
		}
		if line.ToDate != nil && !line.ToDate.Equal(from) {
			d.Add("DTP", "472", "RD8", x12.FormatDate(from)+"-"+x12.FormatDate(*line.ToDate))
		} else {
			d.Add("DTP", "472", "D8", x12.FormatDate(from))
		}

		if line.NDCCode != nil {
			d.Add("LIN", "", "N4", *line.NDCCode)
			qty := ""
			if line.NDCQuantity != nil {
				qty = x12.FormatAmount(*line.NDCQuantity)
			}
			unit := "UN"
			if line.NDCUnit != nil {
				unit = *line.NDCUnit
			}
			d.Add("CTP", "", "", "", qty, unit)
		}
	}
}

func (e *Encoder) writeEnvelopeClose(d *x12.Document) {
	// Trailer count covers the ST..SE range: everything emitted so far
	// minus the ISA and GS envelope segments.
	d.Add("SE", strconv.Itoa(d.Count()-2), "0001")
	d.Add("GE", "1", "1")
	d.Add("IEA", "1", "000000001")
}

func writeAddress(d *x12.Document, a *Address) {
	if a == nil || a.Line1 == nil {
		return
	}
	line2 := ""
	if a.Line2 != nil {
		line2 = *a.Line2
	}
	if line2 != "" {
		d.Add("N3", *a.Line1, line2)
	} else {
		d.Add("N3", *a.Line1)
	}
	city, state, zip := "", "", ""
	if a.City != nil {
		city = *a.City
	}
	if a.State != nil {
		state = *a.State
	}
	if a.Zip != nil {
		zip = *a.Zip
	}
	d.Add("N4", city, state, zip)
}

// relationshipCode maps a relationship label to its SBR02 individual
// relationship code.
func relationshipCode(rel string) string {
	switch rel {
	case "Self":
		return "18"
	case "Spouse":
		return "01"
	case "Child":
		return "19"
	default:
		return "G8"
	}
}

// patientRelationshipCode maps a relationship label to its PAT01 code.
func patientRelationshipCode(rel string) string {
	switch rel {
	case "Spouse":
		return "01"
	case "Child":
		return "19"
	default:
		return "G8"
	}
}

// claimFilingCode maps the payer type to the SBR09 claim filing indicator.
func claimFilingCode(payerType string) string {
	switch payerType {
	case "medicare":
		return "MB"
	case "medicaid":
		return "MC"
	case "tricare":
		return "CH"
	case "workerscomp":
		return "WC"
	case "selfpay":
		return "09"
	default:
		return "CI"
	}
}

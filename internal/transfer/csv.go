package transfer

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/contacts"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/deals"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"
)

const csvDate = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(csvDate)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DealsCSV(items []deals.Deal) ([]byte, error) {
	header := []string{
		"id", "name", "value", "stage", "probability", "closeDate",
		"contactId", "referralSource", "referralTeam", "referralType", "referralDate",
	}
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{
			d.ID,
			d.Name,
			strconv.FormatFloat(d.Value, 'f', 2, 64),
			d.Stage,
			strconv.Itoa(d.Probability),
			formatDate(d.CloseDate),
			d.ContactID,
			d.ReferralSource,
			d.ReferralTeam,
			d.ReferralType,
			formatDate(d.ReferralDate),
		})
	}
	return writeCSV(header, rows)
}

func ContactsCSV(items []contacts.Contact) ([]byte, error) {
	header := []string{"id", "name", "company", "title", "tier", "email", "phone", "teamId"}
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.Company,
			c.Title,
			strconv.Itoa(c.Tier),
			c.Email,
			c.Phone,
			c.TeamID,
		})
	}
	return writeCSV(header, rows)
}

func TouchpointsCSV(items []touchpoints.Touchpoint) ([]byte, error) {
	header := []string{"id", "contactId", "dealId", "memberId", "type", "outcome", "date", "important", "notes"}
	rows := make([][]string, 0, len(items))
	for _, tp := range items {
		rows = append(rows, []string{
			tp.ID,
			tp.ContactID,
			tp.DealID,
			tp.MemberID,
			tp.Type,
			tp.Outcome,
			formatDate(tp.Date),
			strconv.FormatBool(tp.Important),
			tp.Notes,
		})
	}
	return writeCSV(header, rows)
}

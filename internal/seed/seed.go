package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"insurance-tracker/internal/domain"
	"insurance-tracker/internal/logging"
)

// IDPrefix marks the demo customers. Apply owns every customer with it.
const IDPrefix = "DEMO-"

type policySeed struct {
	PolicyNo   string
	Insurer    string
	StartDays  int
	EndDays    int
	SumCents   int64
	TotalCents int64
}

type warrantySeed struct {
	Product string
	EndDays int
}

type defectSeed struct {
	Type         string
	DeadlineDays int
	// AccidentDays set makes the defect an incident.
	AccidentDays *int
}

type customerSeed struct {
	ID         string
	Name       string
	Email      string
	InCharge   string
	ProposalBy string
	Engineers  string
	Policies   []policySeed
	Warranties []warrantySeed
	Defects    []defectSeed
}

func daysAgo(n int) *int { v := -n; return &v }

// customers covers every status color. Dates are offsets from today.
var customers = []customerSeed{
	{
		ID: IDPrefix + "001", Name: "Sunrise Agro Farm", Email: "ops@sunrise.example",
		InCharge: "Alwin", ProposalBy: "Haziq", Engineers: "Haziq,Farah",
		Policies: []policySeed{
			// two anniversaries already passed, so renewal notices come due
			{PolicyNo: "DEMO-POL-001", Insurer: "Etiqa", StartDays: -740, EndDays: 355, SumCents: 125000000, TotalCents: 320050},
		},
		Warranties: []warrantySeed{{Product: "Hybrid Inverter", EndDays: 900}},
	},
	{
		ID: IDPrefix + "002", Name: "Harbour Logistics", Email: "facilities@harbour.example",
		InCharge: "Henry", ProposalBy: "Asyraf", Engineers: "Asyraf",
		Policies:   []policySeed{{PolicyNo: "DEMO-POL-002", Insurer: "Allianz", StartDays: -353, EndDays: 12, SumCents: 48000000, TotalCents: 150000}},
		Warranties: []warrantySeed{{Product: "String Inverter", EndDays: 400}},
	},
	{
		ID: IDPrefix + "003", Name: "Kampung Solar Co-op", Email: "admin@kampung.example",
		InCharge: "Vanessa", ProposalBy: "Faqihah", Engineers: "Faqihah,Loh",
		Policies: []policySeed{{PolicyNo: "DEMO-POL-003", Insurer: "AIA", StartDays: -385, EndDays: -20, SumCents: 30000000, TotalCents: 90000}},
		Defects: []defectSeed{
			{Type: "Lighting Strike", DeadlineDays: -5},
			{Type: "Fire Disaster", DeadlineDays: 60, AccidentDays: daysAgo(3)},
		},
	},
	{
		ID: IDPrefix + "004", Name: "Mixed Estates", Email: "it@mixed.example",
		InCharge: "Loh", ProposalBy: "Farah", Engineers: "Farah",
		Policies: []policySeed{
			{PolicyNo: "DEMO-POL-004", Insurer: "Etiqa", StartDays: -405, EndDays: -40, SumCents: 10000000, TotalCents: 40000},
			{PolicyNo: "DEMO-POL-005", Insurer: "Etiqa", StartDays: -65, EndDays: 300, SumCents: 10000000, TotalCents: 42000},
		},
		Defects: []defectSeed{{Type: "Other", DeadlineDays: 25}},
	},
	{
		ID: IDPrefix + "005", Name: "New Lead Sdn Bhd", Email: "hello@newlead.example",
		InCharge: "Alwin", ProposalBy: "Loh",
	},
}

// Apply replaces the demo customers and everything they own in one
// transaction, so repeated runs leave the same data with dates relative to
// today.
func Apply(ctx context.Context, pool *pgxpool.Pool, today time.Time, logger logrus.FieldLogger) error {
	logger = logging.OrDiscard(logger)
	today = domain.DateOf(today)

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM customers WHERE id LIKE $1`, IDPrefix+"%"); err != nil {
		return fmt.Errorf("clear demo customers: %w", err)
	}
	for _, c := range customers {
		if err := insertCustomer(ctx, tx, c, today); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.WithField("customers", len(customers)).Info("demo data seeded")
	return nil
}

func insertCustomer(ctx context.Context, tx pgx.Tx, c customerSeed, today time.Time) error {
	installed := domain.AddDays(today, -400)
	if _, err := tx.Exec(ctx, `
INSERT INTO customers (id, name, address, email, phone, in_charge, proposal_by, engineers, installer, installed_on)
VALUES ($1, $2, '', $3, '', $4, $5, $6, 'Demo Installer', $7)
`, c.ID, c.Name, c.Email, c.InCharge, c.ProposalBy, c.Engineers, installed); err != nil {
		return err
	}

	for _, p := range c.Policies {
		if _, err := tx.Exec(ctx, `
INSERT INTO insurances (policy_no, customer_id, insurer, sum_amount_cents, total_payable_cents, starting_period, end_period, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, 'Active')
`, p.PolicyNo, c.ID, p.Insurer, p.SumCents, p.TotalCents, domain.AddDays(today, p.StartDays), domain.AddDays(today, p.EndDays)); err != nil {
			return fmt.Errorf("policy %s: %w", p.PolicyNo, err)
		}
	}

	for _, w := range c.Warranties {
		if _, err := tx.Exec(ctx, `
INSERT INTO warranties (customer_id, product, start_date, end_date, details)
VALUES ($1, $2, $3, $4, 'Demo warranty')
`, c.ID, w.Product, domain.AddDays(today, w.EndDays-3650), domain.AddDays(today, w.EndDays)); err != nil {
			return fmt.Errorf("warranty %s: %w", w.Product, err)
		}
	}

	for _, d := range c.Defects {
		var accident *time.Time
		status := domain.DefectPending
		if d.AccidentDays != nil {
			a := domain.AddDays(today, *d.AccidentDays)
			accident = &a
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO defects (customer_id, report_date, accident_date, resolution_deadline, defect_type, status)
VALUES ($1, $2, $3, $4, $5, $6)
`, c.ID, today, accident, domain.AddDays(today, d.DeadlineDays), d.Type, string(status)); err != nil {
			return fmt.Errorf("defect %s: %w", d.Type, err)
		}
	}
	return nil
}

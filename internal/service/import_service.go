package service

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
)

// ImportService handles CSV intake: fund master files, daily position
// snapshots, calendar holiday files and vendor index data. Each file is
// imported inside one transaction, so a bad row rolls the whole file back.
type ImportService struct {
	db            *sql.DB
	fundRepo      *repository.FundRepository
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
	calendarRepo  *repository.CalendarRepository
	indexDataRepo *repository.IndexDataRepository
}

// NewImportService creates a new ImportService with the provided repository dependencies.
func NewImportService(
	db *sql.DB,
	fundRepo *repository.FundRepository,
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
	calendarRepo *repository.CalendarRepository,
	indexDataRepo *repository.IndexDataRepository,
) *ImportService {
	return &ImportService{
		db:            db,
		fundRepo:      fundRepo,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		calendarRepo:  calendarRepo,
		indexDataRepo: indexDataRepo,
	}
}

// csvRows reads a CSV stream into header-keyed records.
func csvRows(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []map[string]string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// parseAmount parses a numeric field, tolerating thousands separators as the
// custodian files use them ("1,234,567.89").
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// ImportFunds ingests a fund master CSV. Rows upsert by ISIN: re-uploading a
// master file refreshes terms without duplicating funds.
func (s *ImportService) ImportFunds(r io.Reader) (int, error) {
	records, err := csvRows(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin fund import transaction: %w", err)
	}
	//nolint:errcheck // Rollback after commit is a no-op.
	defer tx.Rollback()

	fundRepo := s.fundRepo.WithTx(tx)

	for i, record := range records {
		fund, err := fundFromRecord(record)
		if err != nil {
			return 0, fmt.Errorf("fund file row %d: %w", i+2, err)
		}
		if err := fundRepo.UpsertFund(fund); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit fund import: %w", err)
	}

	log.Printf("imported %d funds", len(records))
	return len(records), nil
}

func fundFromRecord(record map[string]string) (model.Fund, error) {
	fund := model.Fund{
		Isin:             record["isin"],
		IndexIsin:        record["index_isin"],
		Name:             record["name"],
		Firm:             record["firm"],
		Status:           model.StatusActive,
		Style:            record["style"],
		Strategy:         record["strategy"],
		FlagRestricted:   parseFlag(record["flag_restricted"]),
		FlagLateCutoff:   parseFlag(record["flag_late_cutoff"]),
		FlagUnitsTrading: parseFlag(record["flag_units_trading"]),
	}
	if fund.Isin == "" {
		return model.Fund{}, fmt.Errorf("missing isin")
	}

	var err error
	if fund.Terms.Rank, err = strconv.Atoi(record["terms_rank"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_rank: %w", err)
	}
	if fund.Terms.RankAmount, err = strconv.ParseInt(record["terms_rank_amount"], 10, 64); err != nil {
		return model.Fund{}, fmt.Errorf("terms_rank_amount: %w", err)
	}
	if fund.Terms.SubNotice, err = strconv.Atoi(record["terms_sub_notice"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_sub_notice: %w", err)
	}
	if fund.Terms.SubSettlement, err = strconv.Atoi(record["terms_sub_settlement"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_sub_settlement: %w", err)
	}
	if fund.Terms.SubMinimum, err = parseAmount(record["terms_sub_minimum"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_sub_minimum: %w", err)
	}
	if fund.Terms.RedNotice, err = strconv.Atoi(record["terms_red_notice"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_red_notice: %w", err)
	}
	if fund.Terms.RedSettlement, err = strconv.Atoi(record["terms_red_settlement"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_red_settlement: %w", err)
	}
	if fund.Terms.ManagementFee, err = parseAmount(record["terms_man_fee"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_man_fee: %w", err)
	}
	if fund.Terms.PerformanceFee, err = parseAmount(record["terms_perf_fee"]); err != nil {
		return model.Fund{}, fmt.Errorf("terms_perf_fee: %w", err)
	}

	fund.Terms.CutoffTime = record["terms_cutoff_time"]
	if fund.Terms.CutoffTime == "" {
		fund.Terms.CutoffTime = "17:30"
	}
	fund.Terms.Currency = record["terms_currency"]
	if fund.Terms.Currency == "" {
		fund.Terms.Currency = "USD"
	}
	for _, name := range strings.Split(record["terms_calendars"], ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			fund.Terms.Calendars = append(fund.Terms.Calendars, trimmed)
		}
	}

	return fund, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// ImportPositions ingests a daily position snapshot file in the custodian's
// export format. Column names follow that export: "Fund" is the account
// number, "ISIN Number" the fund, and an asset class of CURRENCY marks the
// cash line.
func (s *ImportService) ImportPositions(r io.Reader) (int, error) {
	records, err := csvRows(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin position import transaction: %w", err)
	}
	//nolint:errcheck // Rollback after commit is a no-op.
	defer tx.Rollback()

	positionRepo := s.positionRepo.WithTx(tx)

	for i, record := range records {
		position, err := s.positionFromRecord(record)
		if err != nil {
			return 0, fmt.Errorf("position file row %d: %w", i+2, err)
		}
		if err := positionRepo.InsertPosition(position); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit position import: %w", err)
	}

	log.Printf("imported %d positions", len(records))
	return len(records), nil
}

func (s *ImportService) positionFromRecord(record map[string]string) (model.Position, error) {
	// Resolve the referenced portfolio; a snapshot for an unknown account is
	// a file problem, not something to create reference data from.
	portfolio, err := s.portfolioRepo.GetPortfolio(record["Fund"])
	if err != nil {
		return model.Position{}, err
	}

	isCash := record["Fund Asset Class"] == "CURRENCY"

	position := model.Position{
		ID:            uuid.New().String(),
		AccountNumber: &portfolio.AccountNumber,
		FlagCash:      isCash,
	}

	if !isCash {
		fund, err := s.fundRepo.GetFund(record["ISIN Number"])
		if err != nil {
			return model.Position{}, err
		}
		position.Isin = &fund.Isin
	}

	if position.Value, err = parseAmount(record["Base Market Value"]); err != nil {
		return model.Position{}, fmt.Errorf("Base Market Value: %w", err)
	}
	if position.Shares, err = parseAmount(record["Shares/Par Value"]); err != nil {
		return model.Position{}, fmt.Errorf("Shares/Par Value: %w", err)
	}
	if position.Price, err = parseAmount(record["Base Price Amount"]); err != nil {
		return model.Position{}, fmt.Errorf("Base Price Amount: %w", err)
	}
	if position.ValuationDate, err = repository.ParseTime(record["Period End Date"]); err != nil {
		return model.Position{}, fmt.Errorf("Period End Date: %w", err)
	}

	return position, nil
}

// ImportCalendars ingests a holiday file with "calendar,date" rows. Duplicate
// rows are ignored so updated files can be re-uploaded in full.
func (s *ImportService) ImportCalendars(r io.Reader) (int, error) {
	records, err := csvRows(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin calendar import transaction: %w", err)
	}
	//nolint:errcheck // Rollback after commit is a no-op.
	defer tx.Rollback()

	calendarRepo := s.calendarRepo.WithTx(tx)

	for i, record := range records {
		name := record["calendar"]
		if name == "" {
			return 0, fmt.Errorf("calendar file row %d: missing calendar name", i+2)
		}
		date, err := repository.ParseTime(record["date"])
		if err != nil {
			return 0, fmt.Errorf("calendar file row %d: %w", i+2, err)
		}
		if err := calendarRepo.InsertDate(model.CalendarDate{Calendar: name, Date: date}); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit calendar import: %w", err)
	}

	log.Printf("imported %d calendar dates", len(records))
	return len(records), nil
}

// ImportIndexData ingests a vendor data file with
// "isin,date,assets,shares_issued" rows.
func (s *ImportService) ImportIndexData(r io.Reader) (int, error) {
	records, err := csvRows(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin index data import transaction: %w", err)
	}
	//nolint:errcheck // Rollback after commit is a no-op.
	defer tx.Rollback()

	fundRepo := s.fundRepo.WithTx(tx)
	indexDataRepo := s.indexDataRepo.WithTx(tx)

	for i, record := range records {
		fund, err := fundRepo.GetFund(record["isin"])
		if err != nil {
			return 0, fmt.Errorf("index data file row %d: %w", i+2, err)
		}

		data := model.IndexData{
			ID:   uuid.New().String(),
			Isin: &fund.Isin,
		}
		if data.Date, err = repository.ParseTime(record["date"]); err != nil {
			return 0, fmt.Errorf("index data file row %d: %w", i+2, err)
		}
		if data.Assets, err = parseAmount(record["assets"]); err != nil {
			return 0, fmt.Errorf("index data file row %d assets: %w", i+2, err)
		}
		if data.SharesIssued, err = parseAmount(record["shares_issued"]); err != nil {
			return 0, fmt.Errorf("index data file row %d shares_issued: %w", i+2, err)
		}

		if err := indexDataRepo.InsertIndexData(data); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit index data import: %w", err)
	}

	log.Printf("imported %d index data rows", len(records))
	return len(records), nil
}

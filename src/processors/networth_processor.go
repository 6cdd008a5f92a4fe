// backend/src/processors/networth_processor.go
package processors

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/shopledger/backend/src/models"
)

// NetWorthInput is one consistent snapshot of everything the shop holds or owes.
type NetWorthInput struct {
	Balances      models.Balances
	Sales         []models.Sale
	Debts         []models.Debt
	CompanyDebts  []models.Obligation
	PersonalLoans []models.Obligation
	Stock         []models.StockItem
}

type netWorthProcessorImpl struct {
	debts DebtProcessor
}

func NewNetWorthProcessor(debts DebtProcessor) NetWorthProcessor {
	return &netWorthProcessorImpl{debts: debts}
}

// InventoryValue sums buying price times stock of non-archived items, per currency.
func InventoryValue(items []models.StockItem) models.Amounts {
	total := models.Amounts{}
	for _, item := range items {
		if item.Archived || item.Stock <= 0 {
			continue
		}
		total = total.Plus(item.Currency, item.BuyingPrice.Mul(decimal.NewFromInt(item.Stock)))
	}
	return total
}

// Compose builds the summary. Each amount lands in exactly one bucket: a paid
// customer debt shows up only in the balance, an unpaid one only in
// customer debts.
func (p *netWorthProcessorImpl) Compose(in NetWorthInput, rate Rate, now time.Time) models.FinancialSummary {
	s := models.FinancialSummary{
		ExchangeRate: rate.USDToIQD(),
		GeneratedAt:  now,
	}

	s.Balance = models.Amounts{USD: in.Balances.USD, IQD: in.Balances.IQD}
	s.TotalBalanceUSD = rate.AmountsToUSD(s.Balance)

	s.CustomerDebts, _ = p.debts.CustomerOutstanding(in.Sales, NewDebtIndex(in.Debts))
	s.CustomerDebtsUSD = rate.AmountsToUSD(s.CustomerDebts)

	s.PersonalLoans, _ = p.debts.Outstanding(in.PersonalLoans)
	s.PersonalLoansUSD = rate.AmountsToUSD(s.PersonalLoans)

	s.CompanyDebts, _ = p.debts.Outstanding(in.CompanyDebts)
	s.CompanyDebtsUSD = rate.AmountsToUSD(s.CompanyDebts)

	s.Inventory = InventoryValue(in.Stock)
	s.InventoryValueUSD = rate.AmountsToUSD(s.Inventory)

	s.NetWorthUSD = s.TotalBalanceUSD.
		Add(s.CustomerDebtsUSD).
		Add(s.PersonalLoansUSD).
		Add(s.InventoryValueUSD).
		Sub(s.CompanyDebtsUSD)
	return s
}

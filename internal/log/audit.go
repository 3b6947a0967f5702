package log

import "context"

// AuditLogger records ledger mutations in a uniform shape so expense and
// income lifecycles can be traced across logs.
type AuditLogger struct {
	logger *Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// ExpenseCreated logs successful expense creation
func (a *AuditLogger) ExpenseCreated(ctx context.Context, id, desc string, amountCents int64, category, method string) {
	fields := NewFields().
		WithExpense(id, desc, amountCents, category, method).
		WithOperation(OpCreate)

	a.logger.InfoContext(ctx, "Expense created", fields.ToSlice()...)
}

// ExpenseDeleted logs successful expense removal
func (a *AuditLogger) ExpenseDeleted(ctx context.Context, id string) {
	fields := NewFields().
		WithOperation(OpDelete)
	fields[FieldExpenseID] = id

	a.logger.InfoContext(ctx, "Expense deleted", fields.ToSlice()...)
}

// InstallmentPaid logs an installment payment
func (a *AuditLogger) InstallmentPaid(ctx context.Context, id string, paid, total int) {
	fields := NewFields().
		WithOperation(OpUpdate)
	fields[FieldExpenseID] = id
	fields["paid_installments"] = paid
	fields["installments"] = total

	a.logger.InfoContext(ctx, "Installment paid", fields.ToSlice()...)
}

// IncomeCreated logs successful income creation
func (a *AuditLogger) IncomeCreated(ctx context.Context, id, desc string, amountCents int64, category string) {
	fields := NewFields().
		WithIncome(id, desc, amountCents, category).
		WithOperation(OpCreate)

	a.logger.InfoContext(ctx, "Income created", fields.ToSlice()...)
}

// IncomeDeleted logs successful income removal
func (a *AuditLogger) IncomeDeleted(ctx context.Context, id string) {
	fields := NewFields().
		WithOperation(OpDelete)
	fields[FieldIncomeID] = id

	a.logger.InfoContext(ctx, "Income deleted", fields.ToSlice()...)
}

package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Veraticus/ledger/internal/model"
)

// PrintTransactions writes transactions as an aligned table in server order.
func PrintTransactions(w io.Writer, transactions []model.Transaction) error {
	if len(transactions) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No transactions found"))
		return err
	}

	// Align plain text first; styling adds escape codes tabwriter would count.
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\t"); err != nil {
		return err
	}
	for _, txn := range transactions {
		date := ""
		if d := txn.Date(); !d.IsZero() {
			date = d.Format("2006-01-02")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			cell(txn.ID()),
			date,
			truncate(cell(txn.Description()), 40),
			cell(txn.Category())); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if _, err := fmt.Fprintln(w, TableHeaderStyle.Render(lines[0]+"AMOUNT")); err != nil {
		return err
	}
	for i, line := range lines[1:] {
		if _, err := fmt.Fprintln(w, line+FormatAmount(transactions[i].Amount())); err != nil {
			return err
		}
	}

	return nil
}

// PrintHeading writes a section title.
func PrintHeading(w io.Writer, title string) error {
	_, err := fmt.Fprintln(w, FormatTitle(title))
	return err
}

// PrintSummary writes the balance, income and expenses box.
func PrintSummary(w io.Writer, summary model.Summary) error {
	lines := []string{
		fmt.Sprintf("%-10s %s", "Balance", BoldStyle.Render(FormatMoney(summary.Balance))),
		fmt.Sprintf("%-10s %s", "Income", SuccessStyle.Render(FormatMoney(summary.Income))),
		fmt.Sprintf("%-10s %s", "Expenses", ErrorStyle.Render(FormatMoney(summary.Expenses))),
	}
	_, err := fmt.Fprintln(w, RenderBox("Summary", strings.Join(lines, "\n")))
	return err
}

var cellReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// cell keeps a value on one line inside one column.
func cell(s string) string {
	return cellReplacer.Replace(s)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

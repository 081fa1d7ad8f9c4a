package wallet

import "github.com/banksampah/banksampah/internal/ledger"

// Statement is a wallet with its transactions, newest first.
type Statement struct {
	Wallet       ledger.Wallet
	Transactions []ledger.Transaction
}

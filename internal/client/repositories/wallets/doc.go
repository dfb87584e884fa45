// Package wallets provides the client-side persistence layer for wallet
// records.
//
// # Overview
//
// Repository describes the operations the wallet service needs. The SQLite
// implementation (SQLiteRepository) works over a dbx.DBTX, so it runs against
// either *sql.DB or *sql.Tx.
//
// # Data Model
//
// Rows mirror models.Wallet column by column. The private_key column holds
// the SecretToken produced by the vault cipher; encryption and decryption
// happen in the service layer, never here.
//
// Typical Usage
//
//	repo := wallets.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, w)
//	list, _ := repo.GetAll(ctx)
//	one, _ := repo.GetByID(ctx, id)
//	_ = repo.DeleteByID(ctx, id)
package wallets

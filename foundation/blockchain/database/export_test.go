package database

// Tamper applies fn to the stored block at the specified height, bypassing
// the seal. It exists so tests can simulate a corrupted chain.
func (db *Database) Tamper(height uint64, fn func(block *Block)) {
	db.mu.Lock()
	defer db.mu.Unlock()

	fn(&db.blocks[height])
}

package icu

import (
	"context"
	"log/slog"
)

// Strategy names the way a connection can match Cyrillic text case-insensitively.
type Strategy string

const (
	StrategyLocalized Strategy = "localized" // Android LOCALIZED collation
	StrategyUnicode   Strategy = "unicode"   // Android UNICODE collation
	StrategyUnicase   Strategy = "unicase"   // collation registered by Register
	StrategyNoCase    Strategy = "nocase"
	StrategyLower     Strategy = "lower" // LOWER() with a Unicode-aware override
	StrategyNone      Strategy = "none"
)

// minMatches is the number of case variants of the probe word that must match.
const minMatches = 3

var probeWords = []string{"Тест", "тест", "ТЕСТ", "Test", "test", "TEST"}

var candidates = []struct {
	strategy Strategy
	query    string
}{
	{StrategyLocalized, `SELECT COUNT(*) FROM unicode_test WHERE word = 'тест' COLLATE LOCALIZED`},
	{StrategyUnicode, `SELECT COUNT(*) FROM unicode_test WHERE word = 'тест' COLLATE UNICODE`},
	{StrategyUnicase, `SELECT COUNT(*) FROM unicode_test WHERE word = 'тест' COLLATE unicase`},
	{StrategyNoCase, `SELECT COUNT(*) FROM unicode_test WHERE word = 'тест' COLLATE NOCASE`},
	{StrategyLower, `SELECT COUNT(*) FROM unicode_test WHERE LOWER(word) = 'тест'`},
}

// DetectStrategy fills a temp table with case variants of a Cyrillic word and
// returns the first strategy that matches all of them. Collations the engine
// does not know count as zero matches. It returns StrategyNone when nothing
// works or the table cannot be created.
func DetectStrategy(ctx context.Context, db Execer, logger *slog.Logger) Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	if db == nil {
		return StrategyNone
	}

	if _, err := db.ExecContext(ctx, `CREATE TEMP TABLE unicode_test (word TEXT)`); err != nil {
		logger.Warn("sqlite: unicode test failed", "error", err)
		return StrategyNone
	}
	defer db.ExecContext(ctx, `DROP TABLE IF EXISTS temp.unicode_test`)

	for _, w := range probeWords {
		if _, err := db.ExecContext(ctx, `INSERT INTO unicode_test (word) VALUES (?)`, w); err != nil {
			logger.Warn("sqlite: unicode test failed", "error", err)
			return StrategyNone
		}
	}

	counts := make(map[Strategy]int, len(candidates))
	for _, c := range candidates {
		n, err := scanCount(ctx, db, c.query)
		if err != nil {
			logger.Debug("sqlite: unicode strategy unavailable", "strategy", c.strategy, "error", err)
			n = 0
		}
		counts[c.strategy] = n
	}
	logger.Info("sqlite: unicode test results",
		"localized", counts[StrategyLocalized],
		"unicode", counts[StrategyUnicode],
		"unicase", counts[StrategyUnicase],
		"nocase", counts[StrategyNoCase],
		"lower", counts[StrategyLower],
	)

	for _, c := range candidates {
		if counts[c.strategy] >= minMatches {
			logger.Info("sqlite: using unicode strategy", "strategy", c.strategy)
			return c.strategy
		}
	}
	logger.Warn("sqlite: unicode support may not be working properly")
	return StrategyNone
}

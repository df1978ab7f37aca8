package services_test

import (
	"database/sql"

	"github.com/vytor/recallflash/internal/generator"
	"github.com/vytor/recallflash/internal/repository/sqlite"
	"github.com/vytor/recallflash/internal/services"
	"github.com/vytor/recallflash/internal/testutil"
)

func newSQLiteDeckService(sqlDB *sql.DB, gen generator.Generator) services.DeckService {
	return services.NewDeckService(
		sqlite.NewCardRepository(sqlDB),
		sqlite.NewMaterialRepository(sqlDB),
		gen,
		testutil.FixedClock(),
	)
}

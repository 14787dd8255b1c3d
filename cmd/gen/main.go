// Command gen writes typed gorm query helpers for the persistence models.
package main

import (
	"flag"

	"accounts/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	outPath := flag.String("out", "./internal/infra/persistence/postgres/query", "Output directory for generated code")
	flag.Parse()

	models := []any{
		model.UserModel{},
		model.TokenModel{},
	}

	generator := gen.NewGenerator(gen.Config{
		OutPath:       *outPath,
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable: true,
	})

	generator.ApplyBasic(models...)

	generator.Execute()
}

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"
)

var migrationStub = template.Must(template.New("migration").Parse(`package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/kashvi-shop/pkg/migration"
)

func init() {
	migration.Register("{{.Name}}", &{{.StructName}}{})
}

type {{.StructName}} struct{}

func ({{.StructName}}) Up(ctx context.Context, db *mongo.Database) error {
	return nil
}

func ({{.StructName}}) Down(ctx context.Context, db *mongo.Database) error {
	return nil
}
`))

type stubData struct {
	Name       string
	StructName string
}

var makeMigrationCmd = &cobra.Command{
	Use:   "make:migration [name]",
	Short: "Create a new migration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := migrationData(args[0], time.Now())
		var buf bytes.Buffer
		if err := migrationStub.Execute(&buf, data); err != nil {
			return err
		}
		path := filepath.Join("database", "migrations", data.Name+".go")
		if err := writeStub(path, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
		return nil
	},
}

// migrationData turns "add orders index" into 20260101120000_add_orders_index
// with struct name AddOrdersIndex.
func migrationData(name string, now time.Time) stubData {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(name)))
	var sb strings.Builder
	for _, w := range words {
		sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return stubData{
		Name:       now.Format("20060102150405") + "_" + strings.Join(words, "_"),
		StructName: sb.String(),
	}
}

func writeStub(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

// Package testkit provides dataset fixtures for tests.
package testkit

import (
	"os"
	"path/filepath"
	"testing"
)

// RecordsCSV is a small semicolon separated sample of the academic records
// file. The last record has no age and no outcome.
const RecordsCSV = "Gênero;Estado civil;Idade na inscrição;Devedor;Pagamento em dia;Bolsista;Qualificação da mãe;Qualificação do pai;Deslocado;Necessidade de educação especial;Target\n" +
	"Feminino;Solteiro;18;Não;Sim;Sim;Ensino médio;Ensino médio;Sim;Não;Graduado\n" +
	"Masculino;Solteiro;20;Sim;Não;Não;Ensino médio;Superior;Não;Não;Desistente\n" +
	"Feminino;Casado;35;Não;Sim;Não;Superior;Superior;Sim;Sim;Graduado\n" +
	"Feminino;Solteiro;19;Não;Sim;Sim;Ensino médio;Fundamental;Sim;Talvez;Matriculado\n" +
	"Masculino;Divorciado;42;Sim;Não;Não;Fundamental;Fundamental;Não;Não;Desistente\n" +
	"Feminino;Solteiro;22;Não;Sim;Não;Ensino médio;Ensino médio;Não;Não;Graduado\n" +
	"Masculino;Solteiro;18;Não;Sim;Sim;Superior;Ensino médio;Sim;Não;Graduado\n" +
	"Feminino;Solteiro;;Não;Sim;Não;Ensino médio;Ensino médio;Sim;Não;\n"

// Shape of RecordsCSV.
const (
	RecordsRows    = 8
	RecordsColumns = 11
)

// WriteRecords writes RecordsCSV into a temp dir and returns its path.
func WriteRecords(t testing.TB) string {
	t.Helper()
	return WriteFile(t, "records.csv", RecordsCSV)
}

// WriteFile writes content into a temp dir and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

package insight

import "github.com/okian/acadash/internal/domain/catalog"

// DefaultEntries returns the commentary of the academic records dashboard.
func DefaultEntries() map[string]Commentary {
	return map[string]Commentary{
		catalog.Gender: {
			Distribution: "**Insight**: A população de mulheres é significativamente maior que a de homens no conjunto de dados.",
			Outcome:      "**Insight**: As mulheres têm uma maior proporção de graduadas, enquanto os homens apresentam uma maior quantidade de desistentes.",
		},
		catalog.MaritalStatus: {
			Distribution: "**Insight**: A grande maioria da população é composta por solteiros, com poucos casados ou divorciados.",
			Outcome:      "**Insight**: Solteiros têm maior diversidade de status acadêmico, enquanto casados e divorciados têm uma concentração maior de desistentes.",
		},
		catalog.Debtor: {
			Distribution: "**Insight**: A maior parte da população está em dia com suas obrigações financeiras, com uma pequena porcentagem de devedores.",
			Outcome:      "**Insight**: Devedores apresentam uma maior proporção de desistentes em comparação aos que estão em dia com seus pagamentos.",
		},
		catalog.TuitionUpToDate: {
			Distribution: "**Insight**: A maioria da população realiza os pagamentos dentro do prazo estipulado, com poucos casos de pagamentos em atraso.",
			Outcome:      "**Insight**: Aqueles que pagam em dia têm maior concentração de graduados, enquanto os devedores têm uma maior proporção de desistentes.",
		},
		catalog.ScholarshipHolder: {
			Distribution: "**Insight**: A maioria da população não é bolsista, com uma pequena porcentagem recebendo algum tipo de bolsa.",
			Outcome:      "**Insight**: Bolsistas têm uma proporção mais alta de graduados, enquanto não bolsistas têm uma maior quantidade de desistentes.",
		},
		catalog.MotherQualification: {
			Distribution: "**Insight**: A maior parte das mães possui ensino médio completo ou superior, com poucos casos de ensino fundamental ou menos.",
			Outcome: "**Insight**: A qualificação da mãe tem impacto na distribuição do status acadêmico dos filhos. " +
				"Mães com ensino secundário e ensino básico (1º e 3º ciclos) têm uma maior quantidade de filhos graduandos e matriculados, " +
				"mas também uma proporção significativa de filhos desistentes. Já as mães com ensino superior, apesar de representarem " +
				"uma quantidade menor, apresentam um número expressivo de graduados.",
		},
		catalog.FatherQualification: {
			Distribution: "**Insight**: Similar às mães, a maioria dos pais tem nível médio ou superior, com uma pequena porcentagem com nível fundamental.",
			Outcome: "**Insight**: A qualificação do pai também influencia significativamente o status acadêmico dos filhos. " +
				"Pais com ensino básico e secundário têm um número considerável de filhos desistentes, mas a maior parte dos filhos " +
				"dessas categorias está em processo de graduação ou matrícula. Pais com ensino superior têm uma menor quantidade de " +
				"filhos desistentes, com um número considerável de graduandos.",
		},
		catalog.Displaced: {
			Distribution: "**Insight**: A população de deslocados apresenta uma quantidade considerável de indivíduos em situação de deslocamento.",
			Outcome:      "**Insight**: A maior parte dos deslocados com target está em processo de graduação, mas a taxa de desistência é significativa.",
		},
		catalog.SpecialEducationNeed: {
			Distribution: "**Insight**: A grande maioria das pessoas não tem necessidade de educação especial, enquanto apenas um número " +
				"muito pequeno possui essa necessidade. Isso indica que a necessidade de educação especial é uma condição relativamente " +
				"rara dentro deste grupo.",
			Outcome: "**Insight**: A quantidade de pessoas com necessidade de educação especial é baixa em comparação com a população " +
				"geral. No entanto, entre os que têm essa necessidade, a maioria está graduando e matriculado.",
		},
	}
}

// Default returns the Book built from DefaultEntries.
func Default() *Book {
	b, err := NewBook(DefaultEntries())
	if err != nil {
		// The entries above are literals without template actions.
		panic(err)
	}
	return b
}

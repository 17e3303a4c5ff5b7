package services

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"

	"github.com/savingsboard/core/internal/domain/entities"
	"github.com/savingsboard/core/internal/ports"
)

// UI strings. English is the fallback, so keys double as the English text.
const (
	msgTitle       = "200 DEPOSITS CHALLENGE"
	msgGoal        = "Goal: %s"
	msgProgress    = "Progress"
	msgCount       = "%d of %d values (%s%%)"
	msgGoalPercent = "%s%% of goal"
	msgReset       = "Reset challenge"
	msgInstruction = "Click the values you have already saved"
	msgHintOnce    = "Save each value only once"
	msgHintAuto    = "Your progress is saved automatically"
	msgHintTotal   = "%d values available in total"
	msgLoading     = "Loading..."
)

var portuguese = map[string]string{
	msgTitle:       "DESAFIO DOS 200 DEPÓSITOS",
	msgGoal:        "Meta: %s",
	msgProgress:    "Progresso",
	msgCount:       "%d de %d valores (%s%%)",
	msgGoalPercent: "%s%% da meta",
	msgReset:       "Resetar Desafio",
	msgInstruction: "Clique nos valores que você já guardou",
	msgHintOnce:    "Guarde cada valor apenas uma vez",
	msgHintAuto:    "Seu progresso é salvo automaticamente",
	msgHintTotal:   "Total de %d valores disponíveis",
	msgLoading:     "Carregando...",
	ResetPrompt:    "Tem certeza que deseja resetar todo o progresso?",
}

func newCatalog() (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, tag := range []language.Tag{language.Portuguese, language.BrazilianPortuguese} {
		for key, msg := range portuguese {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("register %q: %w", key, err)
			}
		}
	}
	return b, nil
}

// Labels holds the static texts of the page
type Labels struct {
	Progress    string
	Reset       string
	Instruction string
	Confirm     string
	Loading     string
}

// Presenter turns board state into display values for a locale
type Presenter struct {
	printer *message.Printer
	tag     language.Tag
	symbol  string
}

// NewPresenter creates a presenter for a BCP 47 locale and a currency symbol
func NewPresenter(locale, currencySymbol string) (*Presenter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}

	return &Presenter{
		printer: message.NewPrinter(tag, message.Catalog(cat)),
		tag:     tag,
		symbol:  currencySymbol,
	}, nil
}

// Lang returns the locale as a BCP 47 string
func (p *Presenter) Lang() string {
	return p.tag.String()
}

// FormatMoney renders an amount with two decimals and the locale's separators
func (p *Presenter) FormatMoney(amount float64) string {
	formatted := p.printer.Sprint(number.Decimal(amount, number.Scale(2)))
	if p.symbol == "" {
		return formatted
	}
	return p.symbol + " " + formatted
}

// Labels returns the translated static texts
func (p *Presenter) Labels() Labels {
	return Labels{
		Progress:    p.printer.Sprintf(msgProgress),
		Reset:       p.printer.Sprintf(msgReset),
		Instruction: p.printer.Sprintf(msgInstruction),
		Confirm:     p.printer.Sprintf(ResetPrompt),
		Loading:     p.printer.Sprintf(msgLoading),
	}
}

// LoadingView is shown while the board is being restored
func (p *Presenter) LoadingView() ports.BoardView {
	return ports.BoardView{
		Phase:     entities.PhaseLoading,
		Title:     p.printer.Sprintf(msgTitle),
		Goal:      entities.Goal,
		GoalLabel: p.printer.Sprintf(msgGoal, p.FormatMoney(entities.Goal)),
	}
}

// View derives every display value from the board
func (p *Presenter) View(b *entities.Board) ports.BoardView {
	count := b.Selected.Len()
	selected := b.Selected.Sorted()

	cells := make([]ports.Cell, 0, entities.DepositCount)
	for v := entities.MinDeposit; v <= entities.MaxDeposit; v++ {
		cells = append(cells, ports.Cell{Value: v, Selected: b.Selected.Has(v)})
	}

	return ports.BoardView{
		Phase:            entities.PhaseReady,
		Title:            p.printer.Sprintf(msgTitle),
		Goal:             entities.Goal,
		GoalLabel:        p.printer.Sprintf(msgGoal, p.FormatMoney(entities.Goal)),
		Total:            b.Total,
		TotalLabel:       p.FormatMoney(b.Total),
		Selected:         selected,
		Count:            count,
		CountLabel:       p.printer.Sprintf(msgCount, count, entities.DepositCount, oneDecimal(b.CountPercent())),
		ProgressPercent:  b.ProgressPercent(),
		GoalPercent:      b.GoalPercent(),
		GoalPercentLabel: p.printer.Sprintf(msgGoalPercent, oneDecimal(b.GoalPercent())),
		Cells:            cells,
		Hints: []string{
			p.printer.Sprintf(msgHintOnce),
			p.printer.Sprintf(msgHintAuto),
			p.printer.Sprintf(msgHintTotal, entities.DepositCount),
		},
	}
}

func oneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

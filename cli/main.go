package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E85D04")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)

	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0a84ff"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E85D04"))
)

const (
	viewMenu   = "menu"
	viewChat   = "chat"
	viewBasket = "basket"
)

const (
	// transcriptLines is how much of the conversation the chat view shows
	transcriptLines = 14
	// checkoutSettle covers the server's delay before an assistant checkout
	checkoutSettle = 2 * time.Second
)

// Model defines the application state
type Model struct {
	menuList    list.Model
	basketTable table.Model
	textInput   textinput.Model
	spinner     spinner.Model
	client      *ApiClient
	messages    []Message
	basket      Basket
	loading     bool
	currentView string
	status      string
	error       string
}

// dishItem represents a dish in the menu list
type dishItem struct {
	id, title, desc string
}

func (i dishItem) FilterValue() string { return i.title }
func (i dishItem) Title() string       { return i.title }
func (i dishItem) Description() string { return i.desc }

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	menuList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	menuList.Title = "OLIF Food"

	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Dish", Width: 32},
		{Title: "Qty", Width: 5},
		{Title: "Amount", Width: 12},
	}
	basketTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	ti := textinput.New()
	ti.Placeholder = "Ask for a dish, e.g. \"Add 2 Jollof Rice and checkout\""
	ti.CharLimit = 280
	ti.Width = 60

	return Model{
		menuList:    menuList,
		basketTable: basketTable,
		textInput:   ti,
		spinner:     s,
		client:      NewApiClient(),
		currentView: viewMenu,
		loading:     true,
	}
}

// Init starts a session and loads the catalog
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen, startSession(m.client))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.menuList.SetSize(msg.Width-h, msg.Height-v-2)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.cycleView()
			return m, nil
		}
		switch m.currentView {
		case viewMenu:
			if msg.String() == "q" {
				return m, tea.Quit
			}
			if msg.String() == "enter" {
				if selected, isDish := m.menuList.SelectedItem().(dishItem); isDish {
					return m, addItem(m.client, selected.id)
				}
			}
		case viewBasket:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "+", "-":
				if row := m.basketTable.SelectedRow(); row != nil {
					delta := 1
					if msg.String() == "-" {
						delta = -1
					}
					return m, updateQuantity(m.client, row[0], delta)
				}
			case "c":
				return m, checkout(m.client)
			}
		case viewChat:
			if msg.String() == "enter" && !m.loading {
				text := strings.TrimSpace(m.textInput.Value())
				if text == "" {
					return m, nil
				}
				m.textInput.SetValue("")
				m.messages = append(m.messages, Message{Role: "user", Text: text})
				m.loading = true
				return m, sendMessage(m.client, text)
			}
		}
	case sessionMsg:
		m.loading = false
		m.messages = msg.messages
		m.menuList.SetItems(convertRestaurantsToItems(msg.restaurants))
		return m, nil
	case basketMsg:
		m.setBasket(msg.basket)
		m.error = ""
		return m, nil
	case turnMsg:
		m.loading = false
		m.messages = msg.turn.Messages
		m.setBasket(msg.turn.Basket)
		m.error = ""
		if msg.turn.Outcome.CheckoutScheduled {
			return m, refreshBasketAfterCheckout(m.client)
		}
		return m, nil
	case receiptMsg:
		m.setBasket(Basket{})
		m.status = fmt.Sprintf("Order Confirmed! Total paid: %s", formatNaira(msg.receipt.Total))
		m.error = ""
		return m, nil
	case errorMsg:
		m.loading = false
		m.error = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case viewMenu:
		m.menuList, cmd = m.menuList.Update(msg)
	case viewBasket:
		m.basketTable, cmd = m.basketTable.Update(msg)
	case viewChat:
		m.textInput, cmd = m.textInput.Update(msg)
	}

	return m, cmd
}

func (m *Model) cycleView() {
	switch m.currentView {
	case viewMenu:
		m.currentView = viewChat
		m.textInput.Focus()
	case viewChat:
		m.currentView = viewBasket
		m.textInput.Blur()
	default:
		m.currentView = viewMenu
	}
}

func (m *Model) setBasket(b Basket) {
	m.basket = b
	rows := make([]table.Row, len(b.Lines))
	for i, l := range b.Lines {
		rows[i] = table.Row{l.ID, l.Name, fmt.Sprintf("%d", l.Quantity), formatNaira(l.Price * int64(l.Quantity))}
	}
	m.basketTable.SetRows(rows)
}

// View renders the UI
func (m Model) View() string {
	var footer string
	if m.status != "" {
		footer += "\n" + successStyle.Render(m.status)
	}
	if m.error != "" {
		footer += "\n" + errorStyle.Render(m.error)
	}
	tabs := fmt.Sprintf("\n[tab] switch view  •  basket: %d items", m.basket.Count)

	switch m.currentView {
	case viewMenu:
		if m.loading {
			return docStyle.Render(m.spinner.View() + " Connecting to OLIF Food...")
		}
		return docStyle.Render(m.menuList.View() + "\nPress 'enter' to add a dish" + tabs + footer)
	case viewChat:
		view := titleStyle.Render("OLIF Assistant") + "\n\n" + transcriptView(m.messages) + "\n"
		if m.loading {
			view += m.spinner.View() + " thinking...\n"
		}
		return docStyle.Render(view + m.textInput.View() + tabs + footer)
	case viewBasket:
		return docStyle.Render(titleStyle.Render("Your Basket") + "\n\n" + basketView(m) + tabs + footer)
	default:
		return "Loading..."
	}
}

func transcriptView(messages []Message) string {
	if len(messages) > transcriptLines {
		messages = messages[len(messages)-transcriptLines:]
	}
	var sb strings.Builder
	for _, msg := range messages {
		if msg.Role == "user" {
			sb.WriteString(userStyle.Render("You: "))
		} else {
			sb.WriteString(assistantStyle.Render("OLIF: "))
		}
		sb.WriteString(msg.Text + "\n")
	}
	return sb.String()
}

func basketView(m Model) string {
	if len(m.basket.Lines) == 0 {
		return "Your basket is empty.\n"
	}
	t := m.basket.Totals
	view := m.basketTable.View() + "\n\n"
	view += fmt.Sprintf("Subtotal: %s\n", formatNaira(t.Subtotal))
	view += fmt.Sprintf("Delivery: %s\n", formatNaira(t.DeliveryFee))
	view += fmt.Sprintf("Tax: %s\n", formatNaira(t.Tax))
	view += infoStyle.Render("Total: "+formatNaira(t.Total)) + "\n"
	view += "\nPress '+'/'-' to change quantity, 'c' to checkout"
	return view
}

// Custom message types for the tea.Model
type sessionMsg struct {
	messages    []Message
	restaurants []Restaurant
}

type basketMsg struct {
	basket Basket
}

type turnMsg struct {
	turn Turn
}

type receiptMsg struct {
	receipt Receipt
}

type errorMsg struct {
	err string
}

func startSession(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		if _, err := client.CheckHealth(); err != nil {
			return errorMsg{err: fmt.Sprintf("API server at %s is not available: %v", client.BaseURL, err)}
		}
		messages, err := client.StartSession()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error starting session: %v", err)}
		}
		restaurants, err := client.GetRestaurants()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching restaurants: %v", err)}
		}
		return sessionMsg{messages: messages, restaurants: restaurants}
	}
}

func addItem(client *ApiClient, itemID string) tea.Cmd {
	return func() tea.Msg {
		b, err := client.AddItem(itemID)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error adding item: %v", err)}
		}
		return basketMsg{basket: *b}
	}
}

func updateQuantity(client *ApiClient, itemID string, delta int) tea.Cmd {
	return func() tea.Msg {
		b, err := client.UpdateQuantity(itemID, delta)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error updating quantity: %v", err)}
		}
		return basketMsg{basket: *b}
	}
}

func checkout(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		r, err := client.Checkout()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Checkout failed: %v", err)}
		}
		return receiptMsg{receipt: *r}
	}
}

func sendMessage(client *ApiClient, text string) tea.Cmd {
	return func() tea.Msg {
		turn, err := client.SendMessage(text)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Assistant error: %v", err)}
		}
		return turnMsg{turn: *turn}
	}
}

// refreshBasketAfterCheckout picks up the basket once the assistant's
// delayed checkout has run
func refreshBasketAfterCheckout(client *ApiClient) tea.Cmd {
	return tea.Tick(checkoutSettle, func(_ time.Time) tea.Msg {
		b, err := client.GetBasket()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching basket: %v", err)}
		}
		return basketMsg{basket: *b}
	})
}

// convertRestaurantsToItems flattens the catalog into list items
func convertRestaurantsToItems(restaurants []Restaurant) []list.Item {
	var items []list.Item
	for _, r := range restaurants {
		for _, dish := range r.Menu {
			items = append(items, dishItem{
				id:    dish.ID,
				title: fmt.Sprintf("%s  %s", dish.Name, formatNaira(dish.Price)),
				desc:  fmt.Sprintf("%s • %s • %.1f★", r.Name, dish.Category, dish.Rating),
			})
		}
	}
	return items
}

// formatNaira renders whole Naira with thousands separators
func formatNaira(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	return "₦" + sb.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}

// Package main implements the interactive Saathi terminal client.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/saathi/saathi-go/internal/client"
	"github.com/saathi/saathi-go/internal/models"
	"github.com/saathi/saathi-go/internal/service"
)

var (
	version   string
	buildDate string
)

// prompt reads one line of input with the given label.
func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// printMessages renders appended conversation turns.
func printMessages(msgs []models.ChatMessage) {
	for _, m := range msgs {
		who := "you"
		if m.Role == models.RoleAssistant {
			who = "saathi"
		}
		fmt.Printf("[%s] %s\n", who, m.Message)
	}
}

// send submits one message and renders the outcome.
func send(api *client.API, text string) {
	reply, err := api.Submit(text)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	switch service.Outcome(reply.Outcome) {
	case service.OutcomeCredentialRequired:
		fmt.Println("No Groq API key is set. Use 'setkey <key>' first.")
	case service.OutcomeQuotaExceeded:
		fmt.Println("Daily free limit reached. Use 'upgrade' to continue today.")
	case service.OutcomeNoOp:
		// blank input or a submission already in flight
	default:
		printMessages(reply.Messages)
	}
}

// repl runs the interactive shell loop.
func repl(api *client.API, session *client.LocalSession) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("saathi> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, register, login, logout, send <message>, history, mood <label>, moods, status, upgrade, setkey <key>, exit")
		case "register":
			email := prompt(scanner, "email: ")
			name := prompt(scanner, "name (optional): ")
			password := prompt(scanner, "password: ")
			reply, err := api.Register(email, password, name)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			session.Token, session.Email, session.Name = reply.Token, reply.User.Email, reply.User.Name
			_ = session.Save()
			fmt.Printf("Welcome, %s\n", reply.User.Name)
		case "login":
			email := prompt(scanner, "email: ")
			password := prompt(scanner, "password: ")
			reply, err := api.Login(email, password)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			session.Token, session.Email, session.Name = reply.Token, reply.User.Email, reply.User.Name
			_ = session.Save()
			fmt.Printf("Welcome back, %s\n", reply.User.Name)
		case "logout":
			if err := api.Logout(); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			_ = session.Clear()
			fmt.Println("Signed out")
		case "send":
			if len(args) < 2 {
				fmt.Println("Usage: send <message>")
				continue
			}
			send(api, strings.TrimSpace(strings.TrimPrefix(line, "send")))
		case "history":
			page, err := api.History()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			printMessages(page.Messages)
			fmt.Printf("Today: %d/%d free messages used\n", page.TodayCount, page.DailyLimit)
		case "mood":
			if len(args) < 2 {
				fmt.Println("Usage: mood <label>")
				continue
			}
			entry, err := api.RecordMood(args[1])
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Recorded: %s\n", entry.Mood)
		case "moods":
			page, err := api.Moods()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Print("Pick from:")
			for _, m := range page.Catalog {
				fmt.Printf(" %s %s", m.Emoji, m.Label)
			}
			fmt.Println()
			for _, e := range page.Entries {
				fmt.Printf("%s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Mood)
			}
		case "status":
			sub, err := api.Subscription()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Plan: %s\n", sub.Status)
			if present, err := api.HasCredential(); err == nil && !present {
				fmt.Println("No Groq API key set")
			}
		case "upgrade":
			sub, err := api.Upgrade()
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Plan: %s\n", sub.Status)
		case "setkey":
			if len(args) < 2 {
				fmt.Println("Usage: setkey <key>")
				continue
			}
			if err := api.SetCredential(args[1]); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Key saved")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main parses command-line flags, restores a saved session, and starts the
// shell.
func main() {
	var (
		baseURL     string
		sessionPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&sessionPath, "session", "", "path to the session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Saathi Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	session := client.NewLocalSession(sessionPath)
	_ = session.Load()

	api := client.New(baseURL)
	if session.Token != "" {
		api.SetToken(session.Token)
		if user, err := api.Session(); err == nil {
			fmt.Printf("Welcome back, %s\n", user.Name)
		} else {
			// stale token; require a fresh login
			_ = session.Clear()
			api.SetToken("")
		}
	}

	repl(api, session)
}

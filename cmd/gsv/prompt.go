// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/term"
)

// prompter asks the setup questions.
type prompter interface {
	Confirm(message string) (bool, error)
	Password(message string) (string, error)
	MultiSelect(message string, options []string) ([]string, error)
}

// prompts returns the prompter for this run: arrow-key survey prompts on
// a terminal, plain line input when stdin or stdout is redirected.
func (a *app) prompts() prompter {
	if a.prompter != nil {
		return a.prompter
	}

	in, inOK := a.stdin.(*os.File)
	out, outOK := a.stdout.(*os.File)
	if inOK && outOK && term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		a.prompter = &surveyPrompter{in: in, out: out, err: a.stderr}
	} else {
		a.prompter = &linePrompter{in: bufio.NewReader(a.stdin), out: a.stdout}
	}
	return a.prompter
}

// surveyPrompter renders interactive prompts with survey.
type surveyPrompter struct {
	in  terminal.FileReader
	out terminal.FileWriter
	err io.Writer
}

func (p *surveyPrompter) ask(prompt survey.Prompt, response interface{}) error {
	err := survey.AskOne(prompt, response, survey.WithStdio(p.in, p.out, p.err))
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}

func (p *surveyPrompter) Confirm(message string) (bool, error) {
	var ok bool
	err := p.ask(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

func (p *surveyPrompter) Password(message string) (string, error) {
	var secret string
	err := p.ask(&survey.Password{Message: message}, &secret)
	return secret, err
}

func (p *surveyPrompter) MultiSelect(message string, options []string) ([]string, error) {
	selected := []string{}
	err := p.ask(&survey.MultiSelect{
		Message:  message,
		Options:  options,
		PageSize: 15,
		Help:     "space toggles an organization, enter confirms",
	}, &selected)
	return selected, err
}

// linePrompter reads answers one line at a time. It serves piped input and
// tests.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// Confirm treats anything but y or yes as no.
func (p *linePrompter) Confirm(message string) (bool, error) {
	answer, err := p.prompt(message + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *linePrompter) Password(message string) (string, error) {
	return p.prompt(message + " ")
}

// MultiSelect lists options by number and accepts numbers or names.
func (p *linePrompter) MultiSelect(message string, options []string) ([]string, error) {
	fmt.Fprintln(p.out, message)
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}

	answer, err := p.prompt("Enter numbers or names, 'all', or nothing for none: ")
	if err != nil {
		return nil, err
	}
	return parseSelection(answer, options)
}

func (p *linePrompter) prompt(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

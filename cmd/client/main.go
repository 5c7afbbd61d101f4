package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type otpResponse struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
	Error  string `json:"error"`
}

type statementEntry struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Type      string `json:"type"`
	Merchant  string `json:"merchant"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Reference string `json:"upi_reference"`
}

type statementResponse struct {
	Mobile       string           `json:"mobile"`
	UPIHandle    string           `json:"upi_id"`
	Balance      string           `json:"balance"`
	Transactions []statementEntry `json:"transactions"`
	Error        string           `json:"error"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Enter 10 digit mobile number: ")
	mobile := readLine(reader)

	otp, err := generateOTP(client, *baseURL, mobile)
	if err != nil {
		log.Fatalf("otp generation failed: %v", err)
	}
	fmt.Printf("OTP sent to %s (mocked): %s\n", mobile, otp)

	fmt.Print("Enter OTP: ")
	entered := readLine(reader)
	if err := verifyOTP(client, *baseURL, mobile, entered); err != nil {
		log.Fatalf("otp verification failed: %v", err)
	}
	fmt.Println("OTP verified.")

	statement, err := fetchStatement(client, *baseURL, mobile)
	if err != nil {
		log.Fatalf("statement fetch failed: %v", err)
	}
	printStatement(statement)
}

func readLine(reader *bufio.Reader) string {
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}
	return strings.TrimSpace(line)
}

func postJSON(client *http.Client, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil
}

func generateOTP(client *http.Client, baseURL, mobile string) (string, error) {
	var resp otpResponse
	err := postJSON(client, baseURL+"/api/otp/generate", map[string]string{"mobile": mobile}, &resp)
	if err != nil {
		if resp.Error != "" {
			return "", fmt.Errorf("%s", resp.Error)
		}
		return "", err
	}
	return resp.OTP, nil
}

func verifyOTP(client *http.Client, baseURL, mobile, otp string) error {
	var resp otpResponse
	err := postJSON(client, baseURL+"/api/otp/verify", map[string]string{"mobile": mobile, "otp": otp}, &resp)
	if err != nil {
		if resp.Error != "" {
			return fmt.Errorf("%s", resp.Error)
		}
		return err
	}
	return nil
}

func fetchStatement(client *http.Client, baseURL, mobile string) (statementResponse, error) {
	var statement statementResponse
	resp, err := client.Get(baseURL + "/api/transactions/" + mobile)
	if err != nil {
		return statement, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&statement); err != nil {
		return statement, err
	}
	if resp.StatusCode != http.StatusOK {
		if statement.Error != "" {
			return statement, fmt.Errorf("%s", statement.Error)
		}
		return statement, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return statement, nil
}

func printStatement(statement statementResponse) {
	fmt.Printf("\nAccount %s (%s)\n", statement.UPIHandle, statement.Mobile)
	fmt.Printf("Balance: ₹%s\n\n", statement.Balance)
	fmt.Printf("%-12s %-10s %-8s %-10s %s\n", "MERCHANT", "AMOUNT", "TYPE", "STATUS", "REFERENCE")
	for _, txn := range statement.Transactions {
		fmt.Printf("%-12s %-10s %-8s %-10s %s\n", txn.Merchant, txn.Amount, txn.Type, txn.Status, txn.Reference)
	}
}

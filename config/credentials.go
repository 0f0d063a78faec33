/*
Copyright © 2025 PackForge contributors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package config

import (
	"os"

	"gopkg.in/ini.v1"
)

// Credential is one registry login.
type Credential struct {
	Username string
	Password string
}

// Credentials maps registry host to login. Registries without an entry are
// assumed to be pre-authenticated by the environment (CI login step).
type Credentials map[string]Credential

// LoadCredentials reads an INI credentials file with one section per
// registry host:
//
//	[docker.io]
//	username = packforge-bot
//	password = hunter2
//
// A missing file is not an error; publishing then relies on ambient
// authentication.
func LoadCredentials(path string) (Credentials, error) {
	if path == "" {
		return Credentials{}, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Credentials{}, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	creds := Credentials{}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		creds[section.Name()] = Credential{
			Username: section.Key("username").String(),
			Password: section.Key("password").String(),
		}
	}

	return creds, nil
}

// Lookup returns the credential for a registry host, reporting presence.
func (c Credentials) Lookup(host string) (Credential, bool) {
	cred, ok := c[host]
	return cred, ok
}

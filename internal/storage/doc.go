/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements the on-disk layout of a visen project.
// The manifest (.visenrc) marks the project root and names the script file;
// the script (SCRIPT.md) is the only source of truth. Everything under .visen/
// is derived: the SQLite build history at .visen/history.sqlite and crash
// reports can be deleted at any time.
package storage

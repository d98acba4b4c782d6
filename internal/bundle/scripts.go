package bundle

// Стартовые скрипты и production-конфиг, попадающие в артефакт.
// Используются при ручном запуске на хосте; под службой приложение
// стартует через launcher, который пишет pipeline.

const startBat = `@echo off
echo Starting stock analysis service...
echo.

REM Check Python
python --version >nul 2>&1
if errorlevel 1 (
    echo Error: Python not found, install Python 3.7+
    pause
    exit /b 1
)

REM Create venv if missing
if not exist "venv" (
    echo Creating virtual environment...
    python -m venv venv
)

echo Activating virtual environment...
call venv\Scripts\activate.bat

echo Installing dependencies...
pip install -r requirements.txt

echo Starting web application...
echo URL: http://localhost:5000
echo Press Ctrl+C to stop
echo.
python app.py

pause
`

const startPS1 = `# Stock analysis service startup script
Write-Host "Starting stock analysis service..." -ForegroundColor Green
Write-Host ""

try {
    python --version | Out-Null
} catch {
    Write-Host "Error: Python not found, install Python 3.7+" -ForegroundColor Red
    Read-Host "Press Enter to exit"
    exit 1
}

if (-not (Test-Path "venv")) {
    Write-Host "Creating virtual environment..." -ForegroundColor Yellow
    python -m venv venv
}

Write-Host "Activating virtual environment..." -ForegroundColor Yellow
& "venv\Scripts\Activate.ps1"

Write-Host "Installing dependencies..." -ForegroundColor Yellow
pip install -r requirements.txt

Write-Host "Starting web application..." -ForegroundColor Green
Write-Host "URL: http://localhost:5000" -ForegroundColor Cyan
Write-Host ""
python app.py

Read-Host "Press Enter to exit"
`

const configPy = `# Production configuration
import os

class Config:
    SECRET_KEY = os.environ.get('SECRET_KEY') or 'your-secret-key-here'
    DEBUG = False

    DATABASE_URL = os.environ.get('DATABASE_URL') or 'sqlite:///stock_analysis.db'

    LOG_LEVEL = 'INFO'
    LOG_FILE = 'logs/app.log'

    CACHE_TYPE = 'simple'
    CACHE_DEFAULT_TIMEOUT = 300

    SESSION_COOKIE_SECURE = True
    SESSION_COOKIE_HTTPONLY = True

    MAX_CONTENT_LENGTH = 16 * 1024 * 1024  # 16MB

    YFINANCE_TIMEOUT = 30
    DATA_CACHE_TIMEOUT = 3600  # 1 hour
`
